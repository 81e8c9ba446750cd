package loop

import (
	"context"
	"errors"
	"sync"
	"time"

	"lockedflow/internal/core/model"
	"lockedflow/internal/core/timer"
)

// ErrNotRunning indicates the Driver loop has not been started or was stopped.
var ErrNotRunning = errors.New("timer loop not running")

// ErrIdleUnsupported indicates idle detection is not available on this system.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// IdleChecker reports the duration of user inactivity.
type IdleChecker interface {
	IdleDuration() (time.Duration, error)
}

type command struct {
	apply func(*timer.Engine)
	done  chan struct{}
}

// Driver owns a timer.Engine on a single goroutine. It ticks the engine,
// runs commands submitted from other goroutines and publishes events.
type Driver struct {
	mu            sync.Mutex
	engine        *timer.Engine
	config        model.LoopConfig
	idleChecker   IdleChecker
	events        []chan Event
	commands      chan command
	stopCh        chan struct{}
	doneCh        chan struct{}
	running       bool
	latest        timer.Snapshot
	lastIdleCheck time.Time

	// Owned by the loop goroutine.
	lastState timer.State
	updating  bool
	pending   []Event
}

// New creates a Driver for engine. The Driver takes over the engine's
// update callback; commands must not replace it.
func New(engine *timer.Engine, config model.LoopConfig) *Driver {
	driver := &Driver{
		engine:    engine,
		config:    withDefaults(config),
		latest:    engine.Snapshot(),
		lastState: engine.State(),
	}
	engine.SetUpdateCallback(driver.handleUpdate)
	return driver
}

// SetIdleChecker injects an idle checker.
func (driver *Driver) SetIdleChecker(checker IdleChecker) {
	driver.mu.Lock()
	defer driver.mu.Unlock()
	driver.idleChecker = checker
}

// UpdateConfig replaces the loop configuration. A new tick interval takes
// effect on the next tick.
func (driver *Driver) UpdateConfig(config model.LoopConfig) {
	driver.mu.Lock()
	defer driver.mu.Unlock()
	driver.config = withDefaults(config)
	driver.lastIdleCheck = time.Time{}
}

// Subscribe registers a new observer channel. Events are dropped for
// observers whose buffer is full.
func (driver *Driver) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	driver.mu.Lock()
	driver.events = append(driver.events, ch)
	driver.mu.Unlock()
	return ch
}

// Snapshot returns the most recently published engine reading.
func (driver *Driver) Snapshot() timer.Snapshot {
	driver.mu.Lock()
	defer driver.mu.Unlock()
	return driver.latest
}

// Start launches the loop goroutine.
func (driver *Driver) Start() {
	driver.mu.Lock()
	if driver.running {
		driver.mu.Unlock()
		return
	}
	driver.running = true
	commands := make(chan command)
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	driver.commands = commands
	driver.stopCh = stopCh
	driver.doneCh = doneCh
	driver.pending = nil
	driver.latest = driver.engine.Snapshot()
	driver.lastState = driver.engine.State()
	interval := driver.config.TickInterval
	driver.mu.Unlock()

	go driver.run(interval, commands, stopCh, doneCh)
}

// Stop terminates the loop, waits for it to exit and closes observers.
// After Stop returns the engine may be used directly again. Stop must not
// be called from inside a command.
func (driver *Driver) Stop() {
	driver.mu.Lock()
	if !driver.running {
		driver.mu.Unlock()
		return
	}
	close(driver.stopCh)
	driver.running = false
	doneCh := driver.doneCh
	events := driver.events
	driver.events = nil
	driver.mu.Unlock()

	<-doneCh
	for _, ch := range events {
		close(ch)
	}
}

// Do runs fn on the loop goroutine and waits for it to finish.
func (driver *Driver) Do(ctx context.Context, fn func(*timer.Engine)) error {
	driver.mu.Lock()
	if !driver.running {
		driver.mu.Unlock()
		return ErrNotRunning
	}
	commands := driver.commands
	stopCh := driver.stopCh
	driver.mu.Unlock()

	cmd := command{apply: fn, done: make(chan struct{})}
	select {
	case commands <- cmd:
	case <-stopCh:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-cmd.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (driver *Driver) run(interval time.Duration, commands <-chan command, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case cmd := <-commands:
			cmd.apply(driver.engine)
			driver.flush()
			close(cmd.done)
		case tickTime := <-ticker.C:
			driver.tick(tickTime)
			if next := driver.tickInterval(); next != interval {
				interval = next
				ticker.Reset(interval)
			}
		}
	}
}

func (driver *Driver) tick(tickTime time.Time) {
	driver.handleIdleCheck(tickTime)

	driver.updating = true
	driver.engine.Update()
	driver.updating = false

	driver.flush()
}

func (driver *Driver) handleIdleCheck(now time.Time) {
	driver.mu.Lock()
	config := driver.config.IdlePause
	checker := driver.idleChecker
	if !config.Enabled || checker == nil || !driver.engine.IsRunning() {
		driver.mu.Unlock()
		return
	}
	if !driver.lastIdleCheck.IsZero() && now.Sub(driver.lastIdleCheck) < config.CheckInterval {
		driver.mu.Unlock()
		return
	}
	driver.lastIdleCheck = now
	driver.mu.Unlock()

	idleDuration, err := checker.IdleDuration()
	if err != nil {
		if errors.Is(err, ErrIdleUnsupported) {
			driver.mu.Lock()
			driver.config.IdlePause.Enabled = false
			driver.mu.Unlock()
		}
		driver.pending = append(driver.pending, Event{
			Type:     EventIdleError,
			Previous: driver.lastState,
			Snapshot: driver.engine.Snapshot(),
			Message:  err.Error(),
			At:       now,
		})
		return
	}
	if idleDuration < config.After {
		return
	}

	driver.engine.Pause()
	driver.pending = append(driver.pending, Event{
		Type:     EventIdlePause,
		Previous: timer.StateRunning,
		Snapshot: driver.engine.Snapshot(),
		Message:  "paused after " + idleDuration.Truncate(time.Second).String() + " idle",
		At:       now,
	})
}

// handleUpdate is the engine callback. It runs on the loop goroutine, or on
// the caller's goroutine while the loop is stopped.
func (driver *Driver) handleUpdate(time.Duration) {
	state := driver.engine.State()
	previous := driver.lastState
	driver.lastState = state

	event := Event{
		Type:     EventStateChange,
		Previous: previous,
		Snapshot: driver.engine.Snapshot(),
		At:       time.Now(),
	}
	switch {
	case state == previous:
		event.Type = EventTick
	case driver.updating && previous == timer.StateRunning && state == timer.StateStopped:
		event.Type = EventCompleted
	}
	driver.pending = append(driver.pending, event)
}

func (driver *Driver) flush() {
	snapshot := driver.engine.Snapshot()
	pending := driver.pending
	driver.pending = nil

	driver.mu.Lock()
	defer driver.mu.Unlock()
	driver.latest = snapshot
	for _, event := range pending {
		driver.emitLocked(event)
	}
}

func (driver *Driver) emitLocked(event Event) {
	for _, ch := range driver.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func (driver *Driver) tickInterval() time.Duration {
	driver.mu.Lock()
	defer driver.mu.Unlock()
	return driver.config.TickInterval
}

func withDefaults(config model.LoopConfig) model.LoopConfig {
	if config.TickInterval <= 0 {
		config.TickInterval = 100 * time.Millisecond
	}
	if config.IdlePause.CheckInterval <= 0 {
		config.IdlePause.CheckInterval = 5 * time.Second
	}
	if config.IdlePause.After <= 0 {
		config.IdlePause.After = 5 * time.Minute
	}
	return config
}
