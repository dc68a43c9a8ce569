// internal/matching/service.go

package matching

import (
	"context"
	"errors"
	"time"

	"github.com/wandermate/wandermate-backend/internal/users"
)

var ErrCannotMatchSelf = errors.New("cannot match a user with themselves")

type Service interface {
	// GetMatch scores the logged-in user against one target
	GetMatch(ctx context.Context, userID, targetID string, mode Mode) (*MatchResult, error)

	// GetMatchesBatch scores the logged-in user against a set of targets
	GetMatchesBatch(ctx context.Context, userID string, targetIDs []string, mode Mode) ([]*ScoredCandidate, error)

	// ScorePlaces ranks places against the user's persona, with an
	// optional mood boost
	ScorePlaces(ctx context.Context, userID string, places []PlaceForMatching, mood Mood, minScore, limit int) ([]*ScoredPlace, error)
}

type service struct {
	repo        users.Repository
	cache       ScoreCache
	moodEnabled bool
}

func NewService(repo users.Repository, cache ScoreCache, moodEnabled bool) Service {
	return &service{repo: repo, cache: cache, moodEnabled: moodEnabled}
}

func (s *service) GetMatch(ctx context.Context, userID, targetID string, mode Mode) (*MatchResult, error) {
	if userID == targetID {
		return nil, ErrCannotMatchSelf
	}

	if cached, ok := s.cache.Get(ctx, userID, targetID, mode); ok {
		RecordMatchCalculation(mode, "cache")
		return cached, nil
	}

	current, err := s.repo.GetByIDFull(ctx, userID)
	if err != nil {
		return nil, err
	}

	target, err := s.repo.GetByIDFull(ctx, targetID)
	if err != nil {
		return nil, err
	}

	result := CalculateMatch(current, target, mode, time.Now())

	RecordMatchCalculation(mode, "computed")
	RecordMatchScore(result.Score)
	s.cache.Set(ctx, userID, targetID, mode, result)

	return result, nil
}

func (s *service) GetMatchesBatch(ctx context.Context, userID string, targetIDs []string, mode Mode) ([]*ScoredCandidate, error) {
	current, err := s.repo.GetByIDFull(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	scored := make([]*ScoredCandidate, 0, len(targetIDs))

	for _, targetID := range targetIDs {
		if targetID == userID {
			continue
		}

		if cached, ok := s.cache.Get(ctx, userID, targetID, mode); ok {
			RecordMatchCalculation(mode, "cache")
			scored = append(scored, &ScoredCandidate{UserID: targetID, Match: cached})
			continue
		}

		target, err := s.repo.GetByIDFull(ctx, targetID)
		if err != nil {
			// Unknown targets are skipped rather than failing the batch
			if errors.Is(err, users.ErrUserNotFound) {
				continue
			}
			return nil, err
		}

		result := CalculateMatch(current, target, mode, now)
		RecordMatchCalculation(mode, "computed")
		RecordMatchScore(result.Score)
		s.cache.Set(ctx, userID, targetID, mode, result)

		scored = append(scored, &ScoredCandidate{UserID: targetID, Match: result})
	}

	return scored, nil
}

func (s *service) ScorePlaces(ctx context.Context, userID string, places []PlaceForMatching, mood Mood, minScore, limit int) ([]*ScoredPlace, error) {
	user, err := s.repo.GetByIDFull(ctx, userID)
	if err != nil {
		return nil, err
	}

	var persona users.Persona
	if user.Profile != nil {
		persona = user.Profile.Persona
	}

	if !s.moodEnabled {
		mood = MoodNone
	}

	return FilterAndSortPlaces(places, persona, mood, minScore, limit), nil
}
