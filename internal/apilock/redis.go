// internal/apilock/redis.go
// Redis-backed Locker for multi-instance deployments. SetNX gives the
// mutual exclusion; Redis TTLs replace the sweeper.

package apilock

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

type redisLocker struct {
	client    *redis.Client
	resultTTL time.Duration
}

// NewRedisLocker builds the shared Locker. resultTTL bounds how long a
// published result stays readable.
func NewRedisLocker(client *redis.Client, resultTTL time.Duration) Locker {
	return &redisLocker{client: client, resultTTL: resultTTL}
}

func lockKey(key string) string   { return "apilock:" + key + ":lock" }
func resultKey(key string) string { return "apilock:" + key + ":result" }
func syncedKey(key string) string { return "apilock:" + key + ":synced" }

func (l *redisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) bool {
	ok, err := l.client.SetNX(ctx, lockKey(key), "1", ttl).Result()
	if err != nil {
		log.Printf("Lock acquire failed for %s: %v", key, err)
		return false
	}

	if ok {
		RecordAcquire("acquired")
	} else {
		RecordAcquire("contended")
	}
	return ok
}

func (l *redisLocker) Release(ctx context.Context, key string, result json.RawMessage) {
	if result != nil {
		if err := l.client.Set(ctx, resultKey(key), []byte(result), l.resultTTL).Err(); err != nil {
			log.Printf("Lock result publish failed for %s: %v", key, err)
		}
	}

	if err := l.client.Del(ctx, lockKey(key)).Err(); err != nil {
		log.Printf("Lock release failed for %s: %v", key, err)
	}
}

func (l *redisLocker) CachedResult(ctx context.Context, key string) (json.RawMessage, bool) {
	data, err := l.client.Get(ctx, resultKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("Lock result read failed for %s: %v", key, err)
		return nil, false
	}
	return json.RawMessage(data), true
}

func (l *redisLocker) WasRecentlySynced(ctx context.Context, key string, within time.Duration) bool {
	raw, err := l.client.Get(ctx, syncedKey(key)).Result()
	if err != nil {
		return false
	}

	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return false
	}
	return time.Since(at) <= within
}

func (l *redisLocker) MarkSynced(ctx context.Context, key string) {
	if err := l.client.Set(ctx, syncedKey(key), time.Now().Format(time.RFC3339), 24*time.Hour).Err(); err != nil {
		log.Printf("Sync marker write failed for %s: %v", key, err)
	}
}

func (l *redisLocker) Stats() Stats {
	// Per-key scans are not worth the cost; the in-memory
	// implementation backs the debug endpoint
	return Stats{}
}
