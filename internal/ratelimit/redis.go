package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore implements the same fixed-window semantics as MemoryStore on a
// shared Redis instance, so multiple relay instances count against one
// window. The window boundary is the expiry of the counter key.
type RedisStore struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedisStore creates a Redis-backed fixed-window store
func NewRedisStore(client *redis.Client, limit int, window time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Allow increments the key's counter, starting a fresh window on the first
// hit. Redis errors propagate to the caller, which decides the failure
// policy.
func (s *RedisStore) Allow(ctx context.Context, key string) (Result, error) {
	redisKey := "ratelimit:" + key

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit incr: %w", err)
	}

	// First hit in a window owns setting the expiry; later hits inherit it.
	if count == 1 {
		if err := s.client.Expire(ctx, redisKey, s.window).Err(); err != nil {
			return Result{}, fmt.Errorf("ratelimit expire: %w", err)
		}
	}

	if count > int64(s.limit) {
		ttl, err := s.client.TTL(ctx, redisKey).Result()
		if err != nil || ttl < 0 {
			ttl = s.window
		}
		return Result{Allowed: false, RetryAfter: ttl}, nil
	}

	return Result{Allowed: true, Remaining: s.limit - int(count)}, nil
}
