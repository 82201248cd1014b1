package classifier

import (
	"context"
	"sync"
	"time"
)

// rateLimiter is a sliding-window limiter: at most maxRequests request
// timestamps may fall inside the window at any time.
type rateLimiter struct {
	mu          sync.Mutex
	maxRequests int
	window      time.Duration
	requests    []time.Time
}

func newRateLimiter(maxRequests int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		maxRequests: maxRequests,
		window:      window,
	}
}

// Wait blocks until the caller may issue a request, or the context is
// canceled. The caller's slot is reserved before returning.
func (l *rateLimiter) Wait(ctx context.Context) {
	for {
		l.mu.Lock()
		now := time.Now()
		l.prune(now)

		if len(l.requests) < l.maxRequests {
			l.requests = append(l.requests, now)
			l.mu.Unlock()
			return
		}

		oldest := l.requests[0]
		wait := l.window - now.Sub(oldest)
		l.mu.Unlock()

		if wait <= 0 {
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// prune drops timestamps older than the window. Callers hold the lock.
func (l *rateLimiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	kept := l.requests[:0]
	for _, t := range l.requests {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.requests = kept
}
