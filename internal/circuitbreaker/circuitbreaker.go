// Package circuitbreaker wraps sony/gobreaker with engine defaults.
package circuitbreaker

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// Config holds circuit breaker settings.
type Config struct {
	Name        string
	MaxRequests uint32        // requests allowed through while half-open
	Interval    time.Duration // cyclic period to clear counts while closed
	Timeout     time.Duration // how long the breaker stays open
	MinRequests uint32        // minimum requests before the failure ratio trips
	FailureRate float64       // failure ratio that opens the breaker
}

// DefaultConfig returns settings suited to fire-and-forget collaborator calls.
func DefaultConfig(name string) Config {
	return Config{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		MinRequests: 5,
		FailureRate: 0.6,
	}
}

// CircuitBreaker is a typed wrapper over gobreaker.
type CircuitBreaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// New creates a circuit breaker from the given config.
func New[T any](cfg Config) *CircuitBreaker[T] {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRate
		},
	}

	return &CircuitBreaker[T]{cb: gobreaker.NewCircuitBreaker[T](settings)}
}

// Execute runs fn through the breaker.
func (c *CircuitBreaker[T]) Execute(fn func() (T, error)) (T, error) {
	return c.cb.Execute(fn)
}

// State returns the current breaker state name.
func (c *CircuitBreaker[T]) State() string {
	return c.cb.State().String()
}
