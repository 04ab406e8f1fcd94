package gst

import (
	"sync"
	"time"
)

// GlobalBucket is the rate-limit identifier used when the caller supplies
// none.
const GlobalBucket = "global"

// RateLimiter enforces a sliding-window request budget per identifier.
// Timestamps outside the window are discarded on every check; Prune drops
// identifiers whose whole history has aged out.
type RateLimiter struct {
	mu       sync.Mutex
	window   time.Duration
	max      int
	requests map[string][]time.Time
	now      func() time.Time
}

// NewRateLimiter creates a limiter allowing max requests per identifier per
// window.
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		window:   window,
		max:      max,
		requests: make(map[string][]time.Time),
		now:      time.Now,
	}
}

// Allow records a request for the identifier and reports whether it fits
// the budget. Rejected requests are not recorded.
func (l *RateLimiter) Allow(identifier string) bool {
	if identifier == "" {
		identifier = GlobalBucket
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.requests[identifier][:0]
	for _, ts := range l.requests[identifier] {
		if now.Sub(ts) < l.window {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= l.max {
		l.requests[identifier] = recent
		return false
	}

	l.requests[identifier] = append(recent, now)
	return true
}

// Prune removes identifiers with no requests inside the window and returns
// how many were dropped.
func (l *RateLimiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	now := l.now()
	for id, stamps := range l.requests {
		live := false
		for _, ts := range stamps {
			if now.Sub(ts) < l.window {
				live = true
				break
			}
		}
		if !live {
			delete(l.requests, id)
			removed++
		}
	}
	return removed
}
