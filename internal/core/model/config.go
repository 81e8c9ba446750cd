package model

import "time"

// IdlePauseConfig controls automatic pausing after user inactivity.
type IdlePauseConfig struct {
	Enabled       bool
	After         time.Duration
	CheckInterval time.Duration
}

// LoopConfig contains runtime settings for the timer owner loop.
type LoopConfig struct {
	TickInterval time.Duration
	IdlePause    IdlePauseConfig
}
