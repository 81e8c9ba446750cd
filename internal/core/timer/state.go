package timer

import "time"

// State represents the current Engine mode.
type State string

const (
	StateStopped State = "stopped"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

// UpdateFunc receives the total elapsed time on every state change and
// on every tick while running.
type UpdateFunc func(elapsed time.Duration)

// Snapshot is a point-in-time reading of an Engine.
type Snapshot struct {
	State       State         `json:"state"`
	Elapsed     time.Duration `json:"elapsed"`
	Accumulated time.Duration `json:"accumulated"`
	Target      time.Duration `json:"target"`
	HasTarget   bool          `json:"has_target"`
	Remaining   time.Duration `json:"remaining"`
	Progress    float64       `json:"progress"`
}
