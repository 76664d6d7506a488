package ratelimit

import (
	"testing"
	"time"

	"paperbot/internal/logger"
)

func init() {
	logger.Init(false)
}

func TestWaitTruncatesElapsedBeforeSubtracting(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := start.Add(3200 * time.Millisecond)

	var slept time.Duration
	p := NewWithClock(func() time.Time { return now }, func(d time.Duration) { slept = d })

	p.Wait(start, 12*time.Second)

	// elapsed 3.2s truncates to 3s: max(12-3, 0) + 1 = 10s
	if want := 10 * time.Second; slept != want {
		t.Errorf("slept %v, want %v", slept, want)
	}
}

func TestWaitKeepsMarginWhenCallOutlastsFloor(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := start.Add(14 * time.Second)

	var slept time.Duration
	p := NewWithClock(func() time.Time { return now }, func(d time.Duration) { slept = d })

	p.Wait(start, 12*time.Second)

	if want := time.Second; slept != want {
		t.Errorf("slept %v, want %v", slept, want)
	}
}

func TestWaitShorterFloorForLiteModel(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := start.Add(2 * time.Second)

	var slept time.Duration
	p := NewWithClock(func() time.Time { return now }, func(d time.Duration) { slept = d })

	p.Wait(start, 6*time.Second)

	if want := 5 * time.Second; slept != want {
		t.Errorf("slept %v, want %v", slept, want)
	}
}
