// internal/discovery/service.go

package discovery

import (
	"context"
	"time"

	"github.com/wandermate/wandermate-backend/internal/matching"
	"github.com/wandermate/wandermate-backend/internal/users"
)

type Service interface {
	// DiscoverMates returns the filtered candidate page for a user,
	// annotated with pairwise match results when annotate is set
	DiscoverMates(ctx context.Context, userID string, filters MateFilters, annotate bool, mode matching.Mode) ([]*Mate, error)
}

type service struct {
	repo     users.Repository
	pageSize int
}

func NewService(repo users.Repository, pageSize int) Service {
	return &service{repo: repo, pageSize: pageSize}
}

func (s *service) DiscoverMates(ctx context.Context, userID string, filters MateFilters, annotate bool, mode matching.Mode) ([]*Mate, error) {
	candidates, err := s.repo.ListCandidates(ctx, userID, s.pageSize, 0)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	filtered := FilterMates(candidates, filters, now)
	SortMates(filtered, filters.Sort, now)

	mates := make([]*Mate, 0, len(filtered))

	if !annotate {
		for _, u := range filtered {
			mates = append(mates, &Mate{User: u})
		}
		return mates, nil
	}

	current, err := s.repo.GetByIDFull(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, u := range filtered {
		match := matching.CalculateMatch(current, u, mode, now)
		matching.RecordMatchCalculation(mode, "computed")
		matching.RecordMatchScore(match.Score)
		mates = append(mates, &Mate{User: u, Match: match})
	}

	return mates, nil
}
