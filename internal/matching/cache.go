// internal/matching/cache.go
// Redis-backed cache for pairwise match results. Cache failures are
// logged and treated as misses; scoring is cheap enough to recompute.

package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// ScoreCache stores match results for a bounded time
type ScoreCache interface {
	Get(ctx context.Context, userID, targetID string, mode Mode) (*MatchResult, bool)
	Set(ctx context.Context, userID, targetID string, mode Mode, result *MatchResult)
}

type redisScoreCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisScoreCache(client *redis.Client, ttl time.Duration) ScoreCache {
	return &redisScoreCache{client: client, ttl: ttl}
}

func cacheKey(userID, targetID string, mode Mode) string {
	return fmt.Sprintf("match:%s:user:%s:%s", userID, targetID, mode)
}

func (c *redisScoreCache) Get(ctx context.Context, userID, targetID string, mode Mode) (*MatchResult, bool) {
	data, err := c.client.Get(ctx, cacheKey(userID, targetID, mode)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("match cache read failed: %v", err)
		return nil, false
	}

	var entry cachedScore
	if err := json.Unmarshal(data, &entry); err != nil {
		log.Printf("match cache entry corrupt: %v", err)
		return nil, false
	}

	return entry.Result, entry.Result != nil
}

func (c *redisScoreCache) Set(ctx context.Context, userID, targetID string, mode Mode, result *MatchResult) {
	entry := cachedScore{Result: result, CalculatedAt: time.Now()}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, cacheKey(userID, targetID, mode), data, c.ttl).Err(); err != nil {
		log.Printf("match cache write failed: %v", err)
	}
}

// noopScoreCache is used when Redis is not configured
type noopScoreCache struct{}

func NewNoopScoreCache() ScoreCache { return noopScoreCache{} }

func (noopScoreCache) Get(context.Context, string, string, Mode) (*MatchResult, bool) {
	return nil, false
}

func (noopScoreCache) Set(context.Context, string, string, Mode, *MatchResult) {}
