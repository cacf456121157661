// Package ratelimit bounds how often a client may hit the activation polling
// and payment creation endpoints.
package ratelimit

import (
	"context"
	"time"
)

// RateLimitConfig caps requests per window. A zero limit disables that window.
type RateLimitConfig struct {
	RequestsPerMinute int
	RequestsPerHour   int
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, config RateLimitConfig) (bool, error)
	Used(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}
