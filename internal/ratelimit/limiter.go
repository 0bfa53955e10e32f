// Package ratelimit provides the pacing strategies applied between
// destination writes.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

const (
	StrategyFixed       = "fixed"
	StrategyTokenBucket = "token_bucket"
)

// Limiter paces the sync loop. Wait blocks until the next item may proceed.
type Limiter interface {
	Wait(ctx context.Context) error
}

// FixedDelay sleeps for the same duration on every call.
type FixedDelay struct {
	delay time.Duration
}

// NewFixedDelay creates a limiter that always waits d. A non-positive d
// disables waiting.
func NewFixedDelay(d time.Duration) *FixedDelay {
	return &FixedDelay{delay: d}
}

func (f *FixedDelay) Wait(ctx context.Context) error {
	if f.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(f.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Delay returns the configured delay.
func (f *FixedDelay) Delay() time.Duration {
	return f.delay
}

// TokenBucket wraps rate.Limiter with a name for logging/debugging.
type TokenBucket struct {
	limiter *rate.Limiter
	name    string
}

// NewTokenBucket creates a token bucket limiter with the given requests per
// second. A burst below 1 is raised to 1.
func NewTokenBucket(name string, requestsPerSecond float64, burst int) *TokenBucket {
	if burst < 1 {
		burst = 1
	}
	return &TokenBucket{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		name:    name,
	}
}

// Wait blocks until the rate limiter allows a request to proceed.
// Returns an error if the context is cancelled.
func (l *TokenBucket) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait for %s: %w", l.name, err)
	}
	return nil
}

// Name returns the name of this rate limiter.
func (l *TokenBucket) Name() string {
	return l.name
}

// New selects a limiter by strategy name.
func New(strategy string, delay time.Duration, requestsPerSecond float64) (Limiter, error) {
	switch strategy {
	case "", StrategyFixed:
		return NewFixedDelay(delay), nil
	case StrategyTokenBucket:
		if requestsPerSecond <= 0 {
			return nil, fmt.Errorf("token bucket rate must be positive, got %v", requestsPerSecond)
		}
		return NewTokenBucket("notion", requestsPerSecond, 1), nil
	default:
		return nil, fmt.Errorf("unknown rate limit strategy %q", strategy)
	}
}
