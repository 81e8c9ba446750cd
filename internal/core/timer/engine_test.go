package timer_test

import (
	"testing"
	"time"

	"lockedflow/internal/core/timer"
	"lockedflow/internal/core/timer/timertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine() (*timer.Engine, *timertest.ManualClock) {
	clock := timertest.NewManualClock()
	return timer.New(timer.Config{Clock: clock}), clock
}

type recorder struct {
	calls []time.Duration
}

func (rec *recorder) record(elapsed time.Duration) {
	rec.calls = append(rec.calls, elapsed)
}

func TestNewEngineIsStopped(t *testing.T) {
	engine, _ := newEngine()

	assert.Equal(t, timer.StateStopped, engine.State())
	assert.True(t, engine.IsStopped())
	assert.False(t, engine.IsRunning())
	assert.False(t, engine.IsPaused())
	assert.Zero(t, engine.Elapsed())

	_, ok := engine.TargetDuration()
	assert.False(t, ok)
}

func TestElapsedWhileRunning(t *testing.T) {
	engine, clock := newEngine()

	engine.Start()
	clock.Advance(1500 * time.Millisecond)

	assert.Equal(t, 1500*time.Millisecond, engine.Elapsed())
	assert.Equal(t, timer.StateRunning, engine.State())
	assert.Zero(t, engine.TotalElapsed())
}

func TestPauseFreezesElapsed(t *testing.T) {
	engine, clock := newEngine()

	engine.Start()
	clock.Advance(time.Second)
	engine.Pause()
	clock.Advance(2 * time.Second)

	assert.Equal(t, time.Second, engine.Elapsed())
	assert.Equal(t, time.Second, engine.TotalElapsed())
	assert.True(t, engine.IsPaused())
}

func TestElapsedIsSumOfCompletedSessions(t *testing.T) {
	engine, clock := newEngine()

	sessions := []time.Duration{300 * time.Millisecond, 2 * time.Second, 45 * time.Second}
	var want time.Duration
	for index, session := range sessions {
		engine.Start()
		clock.Advance(session)
		if index%2 == 0 {
			engine.Pause()
		} else {
			engine.Stop()
		}
		clock.Advance(time.Minute)
		want += session
		assert.Equal(t, want, engine.Elapsed())
	}
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(*timer.Engine)
		action  func(*timer.Engine)
		want    timer.State
		notify  bool
	}{
		{"start from stopped", func(*timer.Engine) {}, (*timer.Engine).Start, timer.StateRunning, true},
		{"start while running", (*timer.Engine).Start, (*timer.Engine).Start, timer.StateRunning, false},
		{"start from paused", pausedEngine, (*timer.Engine).Start, timer.StateRunning, true},
		{"stop from stopped", func(*timer.Engine) {}, (*timer.Engine).Stop, timer.StateStopped, false},
		{"stop while running", (*timer.Engine).Start, (*timer.Engine).Stop, timer.StateStopped, true},
		{"stop from paused", pausedEngine, (*timer.Engine).Stop, timer.StateStopped, true},
		{"pause from stopped", func(*timer.Engine) {}, (*timer.Engine).Pause, timer.StateStopped, false},
		{"pause while running", (*timer.Engine).Start, (*timer.Engine).Pause, timer.StatePaused, true},
		{"pause from paused", pausedEngine, (*timer.Engine).Pause, timer.StatePaused, false},
		{"reset from stopped", func(*timer.Engine) {}, (*timer.Engine).Reset, timer.StateStopped, false},
		{"reset while running", (*timer.Engine).Start, (*timer.Engine).Reset, timer.StateStopped, true},
		{"reset from paused", pausedEngine, (*timer.Engine).Reset, timer.StateStopped, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _ := newEngine()
			tt.prepare(engine)

			rec := &recorder{}
			engine.SetUpdateCallback(rec.record)
			tt.action(engine)

			assert.Equal(t, tt.want, engine.State())
			if tt.notify {
				assert.Len(t, rec.calls, 1)
			} else {
				assert.Empty(t, rec.calls)
			}
		})
	}
}

func pausedEngine(engine *timer.Engine) {
	engine.Start()
	engine.Pause()
}

func TestNotificationSeesUpdatedFields(t *testing.T) {
	engine, clock := newEngine()

	var states []timer.State
	var elapsed []time.Duration
	engine.SetUpdateCallback(func(value time.Duration) {
		states = append(states, engine.State())
		elapsed = append(elapsed, value)
	})

	engine.Start()
	clock.Advance(4 * time.Second)
	engine.Pause()
	engine.Reset()

	assert.Equal(t, []timer.State{timer.StateRunning, timer.StatePaused, timer.StateStopped}, states)
	assert.Equal(t, []time.Duration{0, 4 * time.Second, 0}, elapsed)
}

func TestResetAlwaysClears(t *testing.T) {
	setups := map[string]func(*timer.Engine, *timertest.ManualClock){
		"stopped with time": func(engine *timer.Engine, clock *timertest.ManualClock) {
			engine.Start()
			clock.Advance(time.Minute)
			engine.Stop()
		},
		"running": func(engine *timer.Engine, clock *timertest.ManualClock) {
			engine.Start()
			clock.Advance(time.Minute)
		},
		"paused": func(engine *timer.Engine, clock *timertest.ManualClock) {
			engine.Start()
			clock.Advance(time.Minute)
			engine.Pause()
		},
		"restored": func(engine *timer.Engine, _ *timertest.ManualClock) {
			engine.SaveElapsed(time.Hour)
		},
	}

	for name, setup := range setups {
		t.Run(name, func(t *testing.T) {
			engine, clock := newEngine()
			setup(engine, clock)

			engine.Reset()
			clock.Advance(time.Minute)

			assert.Zero(t, engine.Elapsed())
			assert.Equal(t, timer.StateStopped, engine.State())
		})
	}
}

func TestStartTwiceDoesNotRestartSession(t *testing.T) {
	engine, clock := newEngine()

	engine.Start()
	clock.Advance(3 * time.Second)
	engine.Start()
	clock.Advance(2 * time.Second)

	assert.Equal(t, 5*time.Second, engine.Elapsed())
}

func TestNoTarget(t *testing.T) {
	engine, clock := newEngine()
	engine.Start()
	clock.Advance(time.Hour)

	_, ok := engine.RemainingTime()
	assert.False(t, ok)
	assert.Zero(t, engine.ProgressPercent())

	engine.Update()
	assert.True(t, engine.IsRunning())
}

func TestRemainingAndProgress(t *testing.T) {
	engine, clock := newEngine()
	engine.SetTargetDuration(40 * time.Second)
	engine.Start()
	clock.Advance(10 * time.Second)

	remaining, ok := engine.RemainingTime()
	require.True(t, ok)
	assert.Equal(t, 30*time.Second, remaining)
	assert.InDelta(t, 25.0, engine.ProgressPercent(), 1e-9)

	clock.Advance(time.Hour)
	remaining, _ = engine.RemainingTime()
	assert.Zero(t, remaining)
	assert.Equal(t, 100.0, engine.ProgressPercent())
}

func TestProgressStaysInRange(t *testing.T) {
	targets := []time.Duration{time.Millisecond, time.Second, 25 * time.Minute}
	elapsed := []time.Duration{0, time.Millisecond, time.Minute, 48 * time.Hour}

	for _, target := range targets {
		for _, value := range elapsed {
			engine, _ := newEngine()
			engine.SetTargetDuration(target)
			engine.SaveElapsed(value)

			progress := engine.ProgressPercent()
			assert.GreaterOrEqual(t, progress, 0.0, "target %v elapsed %v", target, value)
			assert.LessOrEqual(t, progress, 100.0, "target %v elapsed %v", target, value)
		}
	}
}

func TestZeroTarget(t *testing.T) {
	engine, _ := newEngine()
	engine.SetTargetDuration(0)

	target, ok := engine.TargetDuration()
	require.True(t, ok)
	assert.Zero(t, target)
	assert.Zero(t, engine.ProgressPercent())

	remaining, ok := engine.RemainingTime()
	assert.True(t, ok)
	assert.Zero(t, remaining)
}

func TestUpdateStopsWhenTargetReached(t *testing.T) {
	engine, clock := newEngine()
	rec := &recorder{}
	engine.SetUpdateCallback(rec.record)
	engine.SetTargetDuration(30 * time.Second)

	engine.Start()
	clock.Advance(31 * time.Second)
	engine.Update()

	assert.Equal(t, timer.StateStopped, engine.State())
	assert.Equal(t, 31*time.Second, engine.Elapsed())
	assert.Equal(t, 100.0, engine.ProgressPercent())
	// start, live tick, auto-stop
	assert.Equal(t, []time.Duration{0, 31 * time.Second, 31 * time.Second}, rec.calls)
}

func TestUpdateBelowTargetKeepsRunning(t *testing.T) {
	engine, clock := newEngine()
	rec := &recorder{}
	engine.SetTargetDuration(30 * time.Second)
	engine.Start()
	engine.SetUpdateCallback(rec.record)

	clock.Advance(10 * time.Second)
	engine.Update()

	assert.True(t, engine.IsRunning())
	assert.Equal(t, []time.Duration{10 * time.Second}, rec.calls)
}

func TestUpdateWhileNotRunningDoesNothing(t *testing.T) {
	engine, clock := newEngine()
	engine.SetTargetDuration(time.Second)
	engine.Start()
	clock.Advance(5 * time.Second)
	engine.Pause()

	rec := &recorder{}
	engine.SetUpdateCallback(rec.record)
	engine.Update()

	assert.True(t, engine.IsPaused())
	assert.Empty(t, rec.calls)
}

func TestTargetChangeWhileRunning(t *testing.T) {
	engine, clock := newEngine()
	engine.Start()
	clock.Advance(20 * time.Second)

	engine.SetTargetDuration(10 * time.Second)
	assert.True(t, engine.IsRunning())

	engine.Update()
	assert.True(t, engine.IsStopped())
}

func TestSaveElapsedThenRun(t *testing.T) {
	engine, clock := newEngine()
	rec := &recorder{}
	engine.SetUpdateCallback(rec.record)

	engine.SaveElapsed(45 * time.Second)
	assert.Empty(t, rec.calls)
	assert.Equal(t, timer.StateStopped, engine.State())

	engine.Start()
	clock.Advance(5 * time.Second)
	engine.Stop()

	assert.Equal(t, 50*time.Second, engine.Elapsed())
}

func TestSaveElapsedWhileRunning(t *testing.T) {
	engine, clock := newEngine()
	engine.Start()
	clock.Advance(10 * time.Second)

	engine.SaveElapsed(time.Minute)
	assert.Equal(t, time.Minute+10*time.Second, engine.Elapsed())
	assert.True(t, engine.IsRunning())
}

func TestNegativeDurationsAreClamped(t *testing.T) {
	engine, _ := newEngine()

	engine.SaveElapsed(-time.Second)
	engine.SetTargetDuration(-time.Minute)

	assert.Zero(t, engine.Elapsed())
	target, ok := engine.TargetDuration()
	assert.True(t, ok)
	assert.Zero(t, target)
}

func TestClearTarget(t *testing.T) {
	engine, _ := newEngine()
	engine.SetTargetDuration(time.Minute)
	engine.SaveElapsed(30 * time.Second)
	engine.ClearTargetDuration()

	_, ok := engine.RemainingTime()
	assert.False(t, ok)
	assert.Zero(t, engine.ProgressPercent())
}

func TestCallbackReplacement(t *testing.T) {
	engine, _ := newEngine()
	first := &recorder{}
	second := &recorder{}

	engine.SetUpdateCallback(first.record)
	engine.SetUpdateCallback(second.record)
	engine.Start()

	assert.Empty(t, first.calls)
	assert.Len(t, second.calls, 1)

	engine.SetUpdateCallback(nil)
	engine.Stop()
	assert.Len(t, second.calls, 1)
}

func TestSnapshot(t *testing.T) {
	engine, clock := newEngine()
	engine.SetTargetDuration(time.Minute)
	engine.SaveElapsed(15 * time.Second)
	engine.Start()
	clock.Advance(15 * time.Second)

	snapshot := engine.Snapshot()

	assert.Equal(t, timer.Snapshot{
		State:       timer.StateRunning,
		Elapsed:     30 * time.Second,
		Accumulated: 15 * time.Second,
		Target:      time.Minute,
		HasTarget:   true,
		Remaining:   30 * time.Second,
		Progress:    50,
	}, snapshot)
}
