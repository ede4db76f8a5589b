package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window counter shared through Redis, so multiple
// service instances enforce the same limit for a key. The first hit in a
// window creates the counter with a TTL; the window resets when it expires.
type Limiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

// New creates a limiter allowing limit hits per window per key.
func New(client *redis.Client, prefix string, limit int, window time.Duration) *Limiter {
	return &Limiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

// Allow records one hit for the key and reports whether it is still within
// the limit. Errors fail open: a broken cache should not take the feature
// down with it.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("%s:%s", l.prefix, key)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return true, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return true, err
		}
	}

	return count <= int64(l.limit), nil
}

// Remaining returns how many hits are left in the current window.
func (l *Limiter) Remaining(ctx context.Context, key string) (int, error) {
	redisKey := fmt.Sprintf("%s:%s", l.prefix, key)

	count, err := l.client.Get(ctx, redisKey).Int()
	if err == redis.Nil {
		return l.limit, nil
	}
	if err != nil {
		return 0, err
	}

	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
