package ratelimit

import (
	"context"
)

// RateLimitConfig caps requests per window. Zero disables that window.
type RateLimitConfig struct {
	RequestsPerMinute int
	RequestsPerHour   int
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, config RateLimitConfig) (bool, error)
	Reset(ctx context.Context, key string) error
}
