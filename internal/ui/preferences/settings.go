package preferences

import (
	"time"

	"lockedflow/internal/core/model"
)

// Tick interval bounds accepted from the settings file and the form.
const (
	MinTickInterval = 10 * time.Millisecond
	MaxTickInterval = 5 * time.Second
)

// ValidTickInterval reports whether interval lies within the tick bounds.
func ValidTickInterval(interval time.Duration) bool {
	return interval >= MinTickInterval && interval <= MaxTickInterval
}

// Settings defines editable user preferences.
type Settings struct {
	TargetEnabled  bool
	TargetDuration time.Duration
	TickInterval   time.Duration

	IdlePauseEnabled bool
	IdlePauseAfter   time.Duration

	RestoreOnStart bool
	JournalEnabled bool
	StatusAddress  string
}

// DefaultSettings returns default settings for LockedFlow.
func DefaultSettings() Settings {
	return Settings{
		TargetEnabled:    true,
		TargetDuration:   25 * time.Minute,
		TickInterval:     100 * time.Millisecond,
		IdlePauseEnabled: false,
		IdlePauseAfter:   5 * time.Minute,
		RestoreOnStart:   true,
		JournalEnabled:   true,
		StatusAddress:    "",
	}
}

// Target returns the countdown target and whether one is configured.
func (settings Settings) Target() (time.Duration, bool) {
	if !settings.TargetEnabled {
		return 0, false
	}
	return settings.TargetDuration, true
}

// LoopConfig converts settings to the timer loop configuration.
func (settings Settings) LoopConfig() model.LoopConfig {
	return model.LoopConfig{
		TickInterval: settings.TickInterval,
		IdlePause: model.IdlePauseConfig{
			Enabled:       settings.IdlePauseEnabled,
			After:         settings.IdlePauseAfter,
			CheckInterval: 5 * time.Second,
		},
	}
}
