package ports

import (
	"context"
	"time"
)

// RateDecision is the outcome of counting one request against a window.
type RateDecision struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetIn   time.Duration
}

// RateLimiter counts requests per key in fixed windows.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateDecision, error)
}
