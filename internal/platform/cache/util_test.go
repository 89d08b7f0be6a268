package cache

import (
	"testing"
	"time"
)

// TestTimeUntilNextOpen verifies the duration is always positive and never
// more than a day out.
func TestTimeUntilNextOpen(t *testing.T) {
	t.Parallel()

	d := TimeUntilNextOpen()
	if d <= 0 {
		t.Errorf("expected positive duration, got %v", d)
	}
	if d > 24*time.Hour {
		t.Errorf("expected at most 24h, got %v", d)
	}
}
