// internal/places/service.go
// Place search sits behind the api lock: identical queries inside the
// TTL window share one upstream call. Followers that arrive while the
// first call is in flight are told to retry shortly; there are no
// internal retries.

package places

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/wandermate/wandermate-backend/internal/apilock"
)

var (
	ErrSearchInProgress = errors.New("search already in progress, retry shortly")
	ErrEmptyQuery       = errors.New("search query cannot be empty")
)

type Service interface {
	// Search returns the provider response for a query, deduplicating
	// concurrent identical searches
	Search(ctx context.Context, query string) (json.RawMessage, error)
}

type service struct {
	client  Client
	locker  apilock.Locker
	lockTTL time.Duration
}

func NewService(client Client, locker apilock.Locker, lockTTL time.Duration) Service {
	return &service{client: client, locker: locker, lockTTL: lockTTL}
}

func searchKey(query string) string {
	return "places-search:" + strings.ToLower(strings.TrimSpace(query))
}

func (s *service) Search(ctx context.Context, query string) (json.RawMessage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	key := searchKey(query)

	if cached, ok := s.locker.CachedResult(ctx, key); ok {
		return cached, nil
	}

	if !s.locker.Acquire(ctx, key, s.lockTTL) {
		return nil, ErrSearchInProgress
	}

	result, err := s.client.TextSearch(ctx, query)
	if err != nil {
		// Free the key so the next caller can retry
		s.locker.Release(ctx, key, nil)
		return nil, err
	}

	s.locker.Release(ctx, key, result)
	return result, nil
}
