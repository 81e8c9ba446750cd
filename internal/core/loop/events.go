package loop

import (
	"time"

	"lockedflow/internal/core/timer"
)

// EventType defines the type of Driver event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventTick        EventType = "tick"
	EventCompleted   EventType = "completed"
	EventIdlePause   EventType = "idle_pause"
	EventIdleError   EventType = "idle_error"
)

// Event represents a timer update for observers.
type Event struct {
	Type     EventType
	Previous timer.State
	Snapshot timer.Snapshot
	Message  string
	At       time.Time
}
