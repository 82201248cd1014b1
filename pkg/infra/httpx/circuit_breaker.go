package httpx

import (
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// CircuitBreaker shields the classification API from call storms while it
// is failing: after enough consecutive errors the breaker opens and calls
// fail fast until the timeout elapses.
type CircuitBreaker interface {
	Execute(fn func() error) error
}

type breaker struct {
	cb *gobreaker.CircuitBreaker
}

// NewCircuitBreaker trips after maxFailures consecutive failures and lets
// a single trial call through once timeout has passed.
func NewCircuitBreaker(name string, timeout time.Duration, maxFailures uint32) CircuitBreaker {
	return &breaker{
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
		}),
	}
}

func (b *breaker) Execute(fn func() error) error {
	if _, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	}); err != nil {
		return fmt.Errorf("circuit breaker %s: %w", b.cb.Name(), err)
	}
	return nil
}
