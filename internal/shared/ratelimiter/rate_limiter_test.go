package ratelimiter

import (
	"testing"
	"time"
)

func TestRateLimiter_UnderLimit(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(5, time.Minute)

	start := time.Now()
	for i := 0; i < 5; i++ {
		rl.WaitIfNeeded()
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("calls under the limit should not block, took %v", elapsed)
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(2, 200*time.Millisecond)

	rl.WaitIfNeeded()
	rl.WaitIfNeeded()

	start := time.Now()
	rl.WaitIfNeeded() // third call must wait for the window to reset
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("call over the limit should block, took %v", elapsed)
	}
}

func TestRateLimiter_WindowReset(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 50*time.Millisecond)

	rl.WaitIfNeeded()
	time.Sleep(60 * time.Millisecond)

	start := time.Now()
	rl.WaitIfNeeded()
	if elapsed := time.Since(start); elapsed > 20*time.Millisecond {
		t.Errorf("call after window reset should not block, took %v", elapsed)
	}
}
