package util_test

import (
	"testing"
	"time"

	util "github.com/edulane/edulane-api/internal/utils"
)

func TestRemaining(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	limit := 15 * time.Minute

	t.Run("MidSession", func(t *testing.T) {
		now := start.Add(5 * time.Minute)
		if got := util.Remaining(limit, start, now); got != 10*time.Minute {
			t.Errorf("Expected 10m remaining, got %v", got)
		}
	})

	t.Run("Expired", func(t *testing.T) {
		now := start.Add(16 * time.Minute)
		if got := util.Remaining(limit, start, now); got != 0 {
			t.Errorf("Expected 0 remaining after expiry, got %v", got)
		}
	})

	t.Run("ClockSkew", func(t *testing.T) {
		now := start.Add(-2 * time.Minute)
		if got := util.Remaining(limit, start, now); got != limit {
			t.Errorf("Negative elapsed must clamp to full budget, got %v", got)
		}
	})
}
