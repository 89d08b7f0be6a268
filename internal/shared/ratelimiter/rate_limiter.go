// Package ratelimiter provides a simple fixed-window rate limiter for
// outbound API calls.
package ratelimiter

import (
	"log/slog"
	"time"
)

// RateLimiterInterface limits how often an operation may run. A nil-safe
// no-op implementation can be substituted in tests.
type RateLimiterInterface interface {
	WaitIfNeeded()
}

// RateLimiter caps calls per interval, sleeping callers past the limit
// until the window resets.
type RateLimiter struct {
	limit     int           // max calls per interval
	interval  time.Duration // window size
	count     int
	lastReset time.Time
}

// NewRateLimiter creates a RateLimiter allowing limit calls per interval.
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
	}
}

// WaitIfNeeded blocks until the current call fits within the limit.
func (rl *RateLimiter) WaitIfNeeded() {
	now := time.Now()
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}

	rl.count++
	if rl.count > rl.limit {
		sleep := rl.interval - now.Sub(rl.lastReset)
		if sleep > 0 {
			slog.Info("rate limit hit, sleeping", "limit", rl.limit, "sleep", sleep)
			time.Sleep(sleep)
		}
		rl.count = 1
		rl.lastReset = time.Now()
	}
}
