// internal/travelhistory/service.go

package travelhistory

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wandermate/wandermate-backend/internal/users"
)

type Service interface {
	// GetUnifiedTravelHistory builds the merged timeline for a user.
	// Callers that already hold the hydrated user pass it as
	// preFetched to skip the extra lookup.
	GetUnifiedTravelHistory(ctx context.Context, userID string, preFetched *users.User) ([]*TravelHistoryItem, error)
}

type service struct {
	repo       Repository
	userRepo   users.Repository
	visitLimit int
}

func NewService(repo Repository, userRepo users.Repository, visitLimit int) Service {
	return &service{repo: repo, userRepo: userRepo, visitLimit: visitLimit}
}

func (s *service) GetUnifiedTravelHistory(ctx context.Context, userID string, preFetched *users.User) ([]*TravelHistoryItem, error) {
	var (
		user   = preFetched
		visits []*CityVisit
	)

	// Visits and the user load independently
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		visits, err = s.repo.ListCityVisits(gctx, userID, s.visitLimit)
		return err
	})

	if user == nil {
		g.Go(func() error {
			var err error
			user, err = s.userRepo.GetByIDFull(gctx, userID)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	countries, err := s.repo.GetCountriesByCodes(ctx, user.VisitedCountryCodes)
	if err != nil {
		return nil, err
	}

	return MergeTravelHistory(user, visits, countries, time.Now()), nil
}
