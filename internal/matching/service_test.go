package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandermate/wandermate-backend/internal/users"
)

type fakeUserRepo struct {
	users   map[string]*users.User
	fetches int
}

func (r *fakeUserRepo) GetByIDFull(_ context.Context, id string) (*users.User, error) {
	r.fetches++
	u, ok := r.users[id]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) ListCandidates(_ context.Context, _ string, _, _ int) ([]*users.User, error) {
	return nil, nil
}

type mapCache struct {
	entries map[string]*MatchResult
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]*MatchResult)}
}

func (c *mapCache) Get(_ context.Context, userID, targetID string, mode Mode) (*MatchResult, bool) {
	r, ok := c.entries[cacheKey(userID, targetID, mode)]
	return r, ok
}

func (c *mapCache) Set(_ context.Context, userID, targetID string, mode Mode, result *MatchResult) {
	c.entries[cacheKey(userID, targetID, mode)] = result
}

func repoWith(ids ...string) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*users.User)}
	for _, id := range ids {
		repo.users[id] = buildUser(id, testUserOpts{languages: []string{"en"}})
	}
	return repo
}

func TestGetMatchRejectsSelf(t *testing.T) {
	svc := NewService(repoWith("a"), NewNoopScoreCache(), true)

	_, err := svc.GetMatch(context.Background(), "a", "a", ModeCurrent)
	assert.ErrorIs(t, err, ErrCannotMatchSelf)
}

func TestGetMatchUsesCache(t *testing.T) {
	repo := repoWith("a", "b")
	cache := newMapCache()
	svc := NewService(repo, cache, true)

	first, err := svc.GetMatch(context.Background(), "a", "b", ModeCurrent)
	require.NoError(t, err)
	fetchesAfterMiss := repo.fetches

	second, err := svc.GetMatch(context.Background(), "a", "b", ModeCurrent)
	require.NoError(t, err)

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, fetchesAfterMiss, repo.fetches, "cache hit must not hit the repository")
}

func TestGetMatchUnknownTarget(t *testing.T) {
	svc := NewService(repoWith("a"), NewNoopScoreCache(), true)

	_, err := svc.GetMatch(context.Background(), "a", "ghost", ModeCurrent)
	assert.ErrorIs(t, err, users.ErrUserNotFound)
}

func TestGetMatchesBatchSkipsSelfAndUnknown(t *testing.T) {
	svc := NewService(repoWith("a", "b", "c"), NewNoopScoreCache(), true)

	scored, err := svc.GetMatchesBatch(context.Background(), "a", []string{"a", "b", "ghost", "c"}, ModeCurrent)
	require.NoError(t, err)

	require.Len(t, scored, 2)
	assert.Equal(t, "b", scored[0].UserID)
	assert.Equal(t, "c", scored[1].UserID)
}

func TestScorePlacesRespectsMoodFlag(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*users.User{
		"a": buildUser("a", testUserOpts{interests: []string{"yoga_meditation"}}),
	}}

	place := PlaceForMatching{ID: "p1", Tags: []string{"yoga_meditation", "hot_springs"}}

	enabled := NewService(repo, NewNoopScoreCache(), true)
	boosted, err := enabled.ScorePlaces(context.Background(), "a", []PlaceForMatching{place}, MoodChill, 0, 0)
	require.NoError(t, err)
	require.Len(t, boosted, 1)

	disabled := NewService(repo, NewNoopScoreCache(), false)
	plain, err := disabled.ScorePlaces(context.Background(), "a", []PlaceForMatching{place}, MoodChill, 0, 0)
	require.NoError(t, err)
	require.Len(t, plain, 1)

	assert.Greater(t, boosted[0].Match.Score, plain[0].Match.Score)
}
