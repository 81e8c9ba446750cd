// Package timertest provides a manually advanced clock for tests.
package timertest

import (
	"sync"
	"time"
)

// ManualClock is a Clock that only moves when Advance is called.
// It is safe for concurrent use.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock returns a clock positioned at an arbitrary fixed instant.
func NewManualClock() *ManualClock {
	return &ManualClock{now: time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)}
}

// Now returns the current manual time.
func (clock *ManualClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

// Advance moves the clock forward. Negative values are ignored.
func (clock *ManualClock) Advance(delta time.Duration) {
	if delta <= 0 {
		return
	}
	clock.mu.Lock()
	clock.now = clock.now.Add(delta)
	clock.mu.Unlock()
}
