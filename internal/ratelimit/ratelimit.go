// Package ratelimit provides a wrapper around golang.org/x/time/rate.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter wraps rate.Limiter with convenience methods.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a rate limiter allowing requestsPerMinute, with a burst of
// 10% of the limit (at least 1).
func New(requestsPerMinute int) *Limiter {
	rps := float64(requestsPerMinute) / 60.0
	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// NewWithBurst creates a rate limiter with an explicit burst.
func NewWithBurst(requestsPerSecond float64, burst int) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports whether an event may happen now.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Tokens returns the current number of available tokens.
func (l *Limiter) Tokens() float64 {
	return l.limiter.Tokens()
}

// SetLimit updates the rate limit.
func (l *Limiter) SetLimit(requestsPerMinute int) {
	l.limiter.SetLimit(rate.Limit(float64(requestsPerMinute) / 60.0))
}
