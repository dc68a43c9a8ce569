// internal/apilock/lock.go
// Duplicate-call suppression for expensive external API calls. A key
// is locked while one caller works; followers either get the cached
// result or are told to back off. Entries evict themselves lazily on
// access and a background sweeper purges the rest.

package apilock

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Locker guards a keyed operation so only one caller runs it at a time
// and the result is shared within the TTL window
type Locker interface {
	// Acquire takes the lock for key. False means another caller is
	// still mid-flight; a released entry only caches its result and
	// does not block a fresh acquire.
	Acquire(ctx context.Context, key string, ttl time.Duration) bool

	// Release publishes the result and frees the lock. A nil result
	// drops the entry entirely so the next caller retries.
	Release(ctx context.Context, key string, result json.RawMessage)

	// CachedResult returns the published result for key if it is still
	// live
	CachedResult(ctx context.Context, key string) (json.RawMessage, bool)

	// WasRecentlySynced reports whether MarkSynced was called for key
	// within the window
	WasRecentlySynced(ctx context.Context, key string, within time.Duration) bool

	// MarkSynced records a completed sync for key
	MarkSynced(ctx context.Context, key string)

	Stats() Stats
}

// Stats is a point-in-time snapshot for debugging endpoints
type Stats struct {
	Entries    int `json:"entries"`
	InProgress int `json:"in_progress"`
	Synced     int `json:"synced"`
}

type entry struct {
	timestamp  time.Time
	ttl        time.Duration
	inProgress bool
	result     json.RawMessage
}

func (e *entry) expired(now time.Time) bool {
	return now.Sub(e.timestamp) > e.ttl
}

type memoryLocker struct {
	mu      sync.Mutex
	entries map[string]*entry
	synced  map[string]time.Time

	// injectable clock for tests
	now func() time.Time
}

// NewMemoryLocker builds the single-instance Locker
func NewMemoryLocker() Locker {
	return &memoryLocker{
		entries: make(map[string]*entry),
		synced:  make(map[string]time.Time),
		now:     time.Now,
	}
}

func (l *memoryLocker) Acquire(_ context.Context, key string, ttl time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if e, ok := l.entries[key]; ok {
		// Only an in-flight holder blocks; a released entry just holds
		// a cached result, matching the Redis lock key semantics
		if e.inProgress && !e.expired(now) {
			RecordAcquire("contended")
			return false
		}
		delete(l.entries, key)
	}

	l.entries[key] = &entry{timestamp: now, ttl: ttl, inProgress: true}
	RecordAcquire("acquired")
	return true
}

func (l *memoryLocker) Release(_ context.Context, key string, result json.RawMessage) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		return
	}

	if result == nil {
		delete(l.entries, key)
		return
	}

	e.inProgress = false
	e.result = result
	e.timestamp = l.now()
}

func (l *memoryLocker) CachedResult(_ context.Context, key string) (json.RawMessage, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		return nil, false
	}
	if e.expired(l.now()) {
		delete(l.entries, key)
		return nil, false
	}
	if e.inProgress || e.result == nil {
		return nil, false
	}

	return e.result, true
}

func (l *memoryLocker) WasRecentlySynced(_ context.Context, key string, within time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	at, ok := l.synced[key]
	if !ok {
		return false
	}
	if l.now().Sub(at) > within {
		delete(l.synced, key)
		return false
	}
	return true
}

func (l *memoryLocker) MarkSynced(_ context.Context, key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.synced[key] = l.now()
}

func (l *memoryLocker) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	stats := Stats{Entries: len(l.entries), Synced: len(l.synced)}
	for _, e := range l.entries {
		if e.inProgress {
			stats.InProgress++
		}
	}
	return stats
}

// StartSweeper purges expired entries on an interval until the context
// ends
func StartSweeper(ctx context.Context, locker Locker, interval time.Duration) {
	l, ok := locker.(*memoryLocker)
	if !ok {
		// Redis entries expire on their own
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				removed := l.sweep()
				if removed > 0 {
					log.Printf("Lock sweeper removed %d expired entries", removed)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (l *memoryLocker) sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, e := range l.entries {
		if e.expired(now) {
			delete(l.entries, key)
			removed++
		}
	}
	for key, at := range l.synced {
		// Sync markers older than a day are useless
		if now.Sub(at) > 24*time.Hour {
			delete(l.synced, key)
		}
	}
	return removed
}
