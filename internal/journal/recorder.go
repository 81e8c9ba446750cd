package journal

import (
	"context"
	"log"
	"time"

	"lockedflow/internal/core/loop"
	"lockedflow/internal/core/timer"
)

// Writer persists journal entries.
type Writer interface {
	Record(ctx context.Context, entry *Entry) error
}

// Recorder turns driver events into journal entries. A run begins when the
// timer leaves Stopped and ends when it returns to Stopped; runs that end
// with no elapsed time, such as a reset, are not recorded.
type Recorder struct {
	writer    Writer
	logger    *log.Logger
	active    bool
	startedAt time.Time
}

// NewRecorder creates a Recorder. A nil logger uses the standard logger.
func NewRecorder(writer Writer, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.Default()
	}
	return &Recorder{writer: writer, logger: logger}
}

// Run observes events until the channel is closed or ctx is done.
func (recorder *Recorder) Run(ctx context.Context, events <-chan loop.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := recorder.Observe(ctx, event); err != nil {
				recorder.logger.Printf("journal: %v", err)
			}
		}
	}
}

// Start runs Run on a new goroutine. The returned channel is closed once
// every event has been observed, so the writer can be closed after it.
func (recorder *Recorder) Start(ctx context.Context, events <-chan loop.Event) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		recorder.Run(ctx, events)
	}()
	return done
}

// Observe processes a single event.
func (recorder *Recorder) Observe(ctx context.Context, event loop.Event) error {
	if event.Type != loop.EventStateChange && event.Type != loop.EventCompleted {
		return nil
	}
	state := event.Snapshot.State

	if event.Previous == timer.StateStopped && state != timer.StateStopped {
		recorder.active = true
		recorder.startedAt = event.At
		return nil
	}
	if state != timer.StateStopped || event.Previous == timer.StateStopped {
		return nil
	}

	active := recorder.active
	recorder.active = false
	if !active || event.Snapshot.Elapsed <= 0 {
		return nil
	}

	entry := &Entry{
		StartedAt: recorder.startedAt,
		StoppedAt: event.At,
		Elapsed:   event.Snapshot.Elapsed,
		Target:    event.Snapshot.Target,
		HasTarget: event.Snapshot.HasTarget,
		Completed: event.Type == loop.EventCompleted,
	}
	return recorder.writer.Record(ctx, entry)
}
