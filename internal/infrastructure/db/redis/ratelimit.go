package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gofix/gofix-api/internal/core/ports"
)

// FixedWindowLimiter counts requests per key in fixed windows using
// INCR and EXPIRE.
// Key format: ratelimit:<key>:<window_start_unix>
type FixedWindowLimiter struct {
	client redis.Cmdable
	max    int64
	window time.Duration
	now    func() time.Time
}

func NewFixedWindowLimiter(client redis.Cmdable, max int64, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{client: client, max: max, window: window, now: time.Now}
}

var _ ports.RateLimiter = (*FixedWindowLimiter)(nil)

// Allow increments the counter for key in the current window.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (ports.RateDecision, error) {
	now := l.now()
	start := now.Truncate(l.window)
	resetIn := start.Add(l.window).Sub(now)
	redisKey := l.key(key, start)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return ports.RateDecision{Allowed: true, Limit: l.max, Remaining: l.max}, fmt.Errorf("rate limit: %w", err)
	}

	count := incr.Val()
	remaining := l.max - count
	if remaining < 0 {
		remaining = 0
	}
	return ports.RateDecision{
		Allowed:   count <= l.max,
		Limit:     l.max,
		Remaining: remaining,
		ResetIn:   resetIn,
	}, nil
}

func (l *FixedWindowLimiter) key(key string, windowStart time.Time) string {
	return fmt.Sprintf("ratelimit:%s:%d", key, windowStart.Unix())
}
