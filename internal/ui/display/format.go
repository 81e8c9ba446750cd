package display

import (
	"fmt"
	"image/color"
	"time"

	"lockedflow/internal/core/timer"
)

var (
	ColorRunning = color.NRGBA{R: 76, G: 175, B: 80, A: 255}
	ColorPaused  = color.NRGBA{R: 232, G: 190, B: 66, A: 255}
	ColorStopped = color.NRGBA{R: 229, G: 57, B: 53, A: 255}
	colorTrack   = color.NRGBA{R: 255, G: 255, B: 255, A: 40}
)

const warnPercent = 75

// FormatDuration renders value as HH:MM:SS. Hours are not wrapped and
// fractional seconds are dropped.
func FormatDuration(value time.Duration) string {
	if value < 0 {
		value = 0
	}
	seconds := int64(value / time.Second)
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// StateLabel returns the display name of state.
func StateLabel(state timer.State) string {
	switch state {
	case timer.StateRunning:
		return "Running"
	case timer.StatePaused:
		return "Paused"
	default:
		return "Stopped"
	}
}

// StateColor returns the label colour for state.
func StateColor(state timer.State) color.Color {
	switch state {
	case timer.StateRunning:
		return ColorRunning
	case timer.StatePaused:
		return ColorPaused
	default:
		return ColorStopped
	}
}

// ProgressLabel describes progress toward the target.
func ProgressLabel(snapshot timer.Snapshot) string {
	if !snapshot.HasTarget {
		return "No target set"
	}
	return fmt.Sprintf("Progress: %d%%", int(snapshot.Progress))
}

// ProgressColor returns the bar colour for a progress percentage.
func ProgressColor(percent float64) color.Color {
	switch {
	case percent >= 100:
		return ColorStopped
	case percent >= warnPercent:
		return ColorPaused
	default:
		return ColorRunning
	}
}
