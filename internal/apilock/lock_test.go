package apilock

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireIsExclusive(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	assert.True(t, locker.Acquire(ctx, "k", time.Minute))
	assert.False(t, locker.Acquire(ctx, "k", time.Minute))

	// Different keys are independent
	assert.True(t, locker.Acquire(ctx, "other", time.Minute))
}

func TestConcurrentAcquireExactlyOneWins(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	const goroutines = 50
	var wins int32
	var wg sync.WaitGroup

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if locker.Acquire(ctx, "contested", time.Minute) {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
}

func TestReleasePublishesResult(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	require.True(t, locker.Acquire(ctx, "k", time.Minute))

	// In progress: no result yet, and followers stay out
	_, ok := locker.CachedResult(ctx, "k")
	assert.False(t, ok)
	assert.False(t, locker.Acquire(ctx, "k", time.Minute))

	locker.Release(ctx, "k", json.RawMessage(`{"places":[]}`))

	result, ok := locker.CachedResult(ctx, "k")
	require.True(t, ok)
	assert.JSONEq(t, `{"places":[]}`, string(result))
}

func TestReleasedKeyIsAcquirableWithinTTL(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	require.True(t, locker.Acquire(ctx, "k", time.Minute))
	locker.Release(ctx, "k", json.RawMessage(`{"places":[]}`))

	// Released means no longer in flight; the cached result alone must
	// not lock followers out, same as the Redis lock key expiring on
	// release
	assert.True(t, locker.Acquire(ctx, "k", time.Minute))

	// The fresh holder starts a new in-flight window
	assert.False(t, locker.Acquire(ctx, "k", time.Minute))
}

func TestReleaseWithNilResultFreesTheKey(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	require.True(t, locker.Acquire(ctx, "k", time.Minute))
	locker.Release(ctx, "k", nil)

	// Failure path: the next caller may retry immediately
	assert.True(t, locker.Acquire(ctx, "k", time.Minute))
}

func TestExpiredEntriesEvictLazily(t *testing.T) {
	locker := NewMemoryLocker().(*memoryLocker)
	ctx := context.Background()

	current := time.Now()
	locker.now = func() time.Time { return current }

	require.True(t, locker.Acquire(ctx, "k", time.Minute))
	locker.Release(ctx, "k", json.RawMessage(`1`))

	current = current.Add(2 * time.Minute)

	_, ok := locker.CachedResult(ctx, "k")
	assert.False(t, ok)
	assert.True(t, locker.Acquire(ctx, "k", time.Minute))
}

func TestWasRecentlySynced(t *testing.T) {
	locker := NewMemoryLocker().(*memoryLocker)
	ctx := context.Background()

	current := time.Now()
	locker.now = func() time.Time { return current }

	assert.False(t, locker.WasRecentlySynced(ctx, "profile:u1", time.Hour))

	locker.MarkSynced(ctx, "profile:u1")
	assert.True(t, locker.WasRecentlySynced(ctx, "profile:u1", time.Hour))

	current = current.Add(2 * time.Hour)
	assert.False(t, locker.WasRecentlySynced(ctx, "profile:u1", time.Hour))
}

func TestSweepRemovesExpired(t *testing.T) {
	locker := NewMemoryLocker().(*memoryLocker)
	ctx := context.Background()

	current := time.Now()
	locker.now = func() time.Time { return current }

	locker.Acquire(ctx, "old", time.Minute)
	current = current.Add(5 * time.Minute)
	locker.Acquire(ctx, "fresh", time.Minute)

	removed := locker.sweep()

	assert.Equal(t, 1, removed)
	stats := locker.Stats()
	assert.Equal(t, 1, stats.Entries)
}

func TestStats(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	locker.Acquire(ctx, "a", time.Minute)
	locker.Acquire(ctx, "b", time.Minute)
	locker.Release(ctx, "b", json.RawMessage(`1`))
	locker.MarkSynced(ctx, "c")

	stats := locker.Stats()
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, 1, stats.InProgress)
	assert.Equal(t, 1, stats.Synced)
}
