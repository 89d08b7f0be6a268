package cache

import (
	"time"
)

// TimeUntilNextOpen returns the duration until the next mainland session
// open (09:30 Asia/Shanghai). Used as the TTL for daily bar caches so
// entries expire before fresh bars can exist.
func TimeUntilNextOpen() time.Duration {
	loc, _ := time.LoadLocation("Asia/Shanghai")
	now := time.Now().In(loc)

	next := time.Date(now.Year(), now.Month(), now.Day(), 9, 30, 0, 0, loc)

	// Past today's open already, roll to tomorrow
	if now.After(next) {
		next = next.Add(24 * time.Hour)
	}

	return next.Sub(now)
}
