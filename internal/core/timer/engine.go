package timer

import "time"

// Config contains construction options for Engine.
type Config struct {
	Clock Clock
}

// Engine is a stopwatch state machine with an optional countdown target.
//
// Engine is not safe for concurrent use. Callers that need access from
// several goroutines must route every call through a single owner.
type Engine struct {
	clock        Clock
	state        State
	sessionStart time.Time
	accumulated  time.Duration
	target       time.Duration
	hasTarget    bool
	onUpdate     UpdateFunc
}

// New creates a stopped Engine with no elapsed time and no target.
func New(options Config) *Engine {
	if options.Clock == nil {
		options.Clock = SystemClock
	}
	return &Engine{
		clock: options.Clock,
		state: StateStopped,
	}
}

// Start begins or resumes a session. It is a no-op while running.
func (engine *Engine) Start() {
	if engine.state == StateRunning {
		return
	}
	engine.sessionStart = engine.clock.Now()
	engine.setState(StateRunning)
}

// Stop banks the current session and stops the engine.
func (engine *Engine) Stop() {
	if engine.state == StateStopped {
		return
	}
	if engine.state == StateRunning {
		engine.accumulated += engine.sessionElapsed()
	}
	engine.setState(StateStopped)
}

// Pause banks the current session. It only has an effect while running.
func (engine *Engine) Pause() {
	if engine.state != StateRunning {
		return
	}
	engine.accumulated += engine.sessionElapsed()
	engine.setState(StatePaused)
}

// Reset discards all elapsed time, including an unbanked session.
func (engine *Engine) Reset() {
	engine.accumulated = 0
	engine.setState(StateStopped)
}

// Update is called once per loop iteration. While running it reports the
// elapsed time to the update callback and stops the engine once the target
// has been reached.
func (engine *Engine) Update() {
	if engine.state == StateRunning && engine.onUpdate != nil {
		engine.notify()
	}
	if engine.state == StateRunning && engine.hasTarget && engine.Elapsed() >= engine.target {
		engine.Stop()
	}
}

// SetTargetDuration sets the countdown target. Negative values are treated as zero.
func (engine *Engine) SetTargetDuration(target time.Duration) {
	if target < 0 {
		target = 0
	}
	engine.target = target
	engine.hasTarget = true
}

// ClearTargetDuration removes the countdown target.
func (engine *Engine) ClearTargetDuration() {
	engine.target = 0
	engine.hasTarget = false
}

// SetUpdateCallback replaces the update callback. A nil callback disables notifications.
func (engine *Engine) SetUpdateCallback(callback UpdateFunc) {
	engine.onUpdate = callback
}

// SaveElapsed overwrites the banked elapsed time, typically with a value
// restored from a previous run. It does not change state or notify.
func (engine *Engine) SaveElapsed(elapsed time.Duration) {
	if elapsed < 0 {
		elapsed = 0
	}
	engine.accumulated = elapsed
}

// State returns the current state.
func (engine *Engine) State() State {
	return engine.state
}

func (engine *Engine) IsRunning() bool {
	return engine.state == StateRunning
}

func (engine *Engine) IsPaused() bool {
	return engine.state == StatePaused
}

func (engine *Engine) IsStopped() bool {
	return engine.state == StateStopped
}

// Elapsed returns the total elapsed time, including the running session.
func (engine *Engine) Elapsed() time.Duration {
	if engine.state == StateRunning {
		return engine.accumulated + engine.sessionElapsed()
	}
	return engine.accumulated
}

// TotalElapsed returns the banked time from completed sessions. It equals
// Elapsed whenever the engine is not running.
func (engine *Engine) TotalElapsed() time.Duration {
	return engine.accumulated
}

// TargetDuration returns the target and whether one is set.
func (engine *Engine) TargetDuration() (time.Duration, bool) {
	return engine.target, engine.hasTarget
}

// RemainingTime returns the time left until the target, never negative.
// The second result is false when no target is set.
func (engine *Engine) RemainingTime() (time.Duration, bool) {
	if !engine.hasTarget {
		return 0, false
	}
	return remaining(engine.target, engine.Elapsed()), true
}

// ProgressPercent returns elapsed time as a percentage of the target,
// clamped to [0, 100]. Without a target, or with a zero target, it is 0.
func (engine *Engine) ProgressPercent() float64 {
	if !engine.hasTarget {
		return 0
	}
	return progressPercent(engine.target, engine.Elapsed())
}

// Snapshot reads every derived value against a single clock reading.
func (engine *Engine) Snapshot() Snapshot {
	elapsed := engine.Elapsed()
	snapshot := Snapshot{
		State:       engine.state,
		Elapsed:     elapsed,
		Accumulated: engine.accumulated,
		Target:      engine.target,
		HasTarget:   engine.hasTarget,
	}
	if engine.hasTarget {
		snapshot.Remaining = remaining(engine.target, elapsed)
		snapshot.Progress = progressPercent(engine.target, elapsed)
	}
	return snapshot
}

func (engine *Engine) setState(state State) {
	if engine.state == state {
		return
	}
	engine.state = state
	engine.notify()
}

func (engine *Engine) sessionElapsed() time.Duration {
	if engine.state != StateRunning {
		return 0
	}
	elapsed := engine.clock.Now().Sub(engine.sessionStart)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

func (engine *Engine) notify() {
	if engine.onUpdate != nil {
		engine.onUpdate(engine.Elapsed())
	}
}

func remaining(target, elapsed time.Duration) time.Duration {
	if elapsed >= target {
		return 0
	}
	return target - elapsed
}

func progressPercent(target, elapsed time.Duration) float64 {
	if target <= 0 {
		return 0
	}
	progress := 100 * float64(elapsed) / float64(target)
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}
