package display

import (
	"math"
	"strconv"
	"strings"
	"time"

	"lockedflow/internal/core/timer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Commands defines the handlers the window forwards user input to.
type Commands struct {
	OnStart       func()
	OnPause       func()
	OnStop        func()
	OnReset       func()
	OnSetTarget   func(time.Duration)
	OnClearTarget func()
}

// Window is the main timer window.
type Window struct {
	window      fyne.Window
	view        *Widget
	commands    Commands
	targetEntry *widget.Entry
	startButton *widget.Button
	pauseButton *widget.Button
	stopButton  *widget.Button
	resetButton *widget.Button
}

// New creates the main window.
func New(app fyne.App, commands Commands) *Window {
	window := app.NewWindow("LockedFlow")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	win := &Window{
		window:      window,
		view:        NewWidget(),
		commands:    commands,
		targetEntry: widget.NewEntry(),
	}
	win.targetEntry.SetPlaceHolder("Target minutes (empty clears)")
	win.targetEntry.OnSubmitted = win.submitTarget

	win.startButton = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), func() { invoke(win.commands.OnStart) })
	win.pauseButton = widget.NewButtonWithIcon("Pause", theme.MediaPauseIcon(), func() { invoke(win.commands.OnPause) })
	win.stopButton = widget.NewButtonWithIcon("Stop", theme.MediaStopIcon(), func() { invoke(win.commands.OnStop) })
	win.resetButton = widget.NewButtonWithIcon("Reset", theme.MediaReplayIcon(), func() { invoke(win.commands.OnReset) })

	buttons := container.NewHBox(layout.NewSpacer(), win.startButton, win.pauseButton, win.stopButton, win.resetButton, layout.NewSpacer())
	targetRow := container.NewBorder(nil, nil, widget.NewLabel("Target"), widget.NewButton("Set", func() {
		win.submitTarget(win.targetEntry.Text)
	}), win.targetEntry)
	hint := widget.NewLabelWithStyle("Space start · P pause · S stop · R reset · T target", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})

	window.SetContent(container.NewPadded(container.NewVBox(win.view.Content(), buttons, targetRow, hint)))
	window.Canvas().SetOnTypedKey(win.handleKey)
	window.Resize(fyne.NewSize(420, 320))
	win.Apply(timer.Snapshot{State: timer.StateStopped})

	return win
}

// Show displays the window.
func (win *Window) Show() {
	win.window.Show()
	win.window.RequestFocus()
}

// Hide hides the window.
func (win *Window) Hide() {
	win.window.Hide()
}

// SetCloseIntercept replaces the default close behaviour.
func (win *Window) SetCloseIntercept(handler func()) {
	win.window.SetCloseIntercept(handler)
}

// SetMaster marks the window as the application's main window.
func (win *Window) SetMaster() {
	win.window.SetMaster()
}

// Apply renders snapshot and updates which buttons are enabled.
func (win *Window) Apply(snapshot timer.Snapshot) {
	win.view.Apply(snapshot)
	setEnabled(win.startButton, snapshot.State != timer.StateRunning)
	setEnabled(win.pauseButton, snapshot.State == timer.StateRunning)
	setEnabled(win.stopButton, snapshot.State != timer.StateStopped)
	setEnabled(win.resetButton, snapshot.State != timer.StateStopped || snapshot.Elapsed > 0)

	if snapshot.State == timer.StatePaused {
		win.startButton.SetText("Resume")
	} else {
		win.startButton.SetText("Start")
	}
}

// SetTargetText shows target in the target entry without submitting it.
func (win *Window) SetTargetText(target time.Duration, hasTarget bool) {
	if !hasTarget {
		win.targetEntry.SetText("")
		return
	}
	win.targetEntry.SetText(strconv.FormatFloat(target.Minutes(), 'f', -1, 64))
}

func (win *Window) handleKey(event *fyne.KeyEvent) {
	switch event.Name {
	case fyne.KeySpace:
		invoke(win.commands.OnStart)
	case fyne.KeyP:
		invoke(win.commands.OnPause)
	case fyne.KeyS:
		invoke(win.commands.OnStop)
	case fyne.KeyR:
		invoke(win.commands.OnReset)
	case fyne.KeyT:
		win.window.Canvas().Focus(win.targetEntry)
	}
}

func (win *Window) submitTarget(text string) {
	defer win.window.Canvas().Unfocus()

	text = strings.TrimSpace(text)
	if text == "" {
		invoke(win.commands.OnClearTarget)
		return
	}
	target, ok := ParseTarget(text)
	if !ok {
		return
	}
	if win.commands.OnSetTarget != nil {
		win.commands.OnSetTarget(target)
	}
}

// maxTargetMinutes is the largest target a time.Duration can hold.
var maxTargetMinutes = float64(math.MaxInt64) / float64(time.Minute)

// ParseTarget reads a target as plain minutes ("25", "1.5") or a Go
// duration ("1h30m"). Negative, NaN, infinite and out-of-range values are
// rejected.
func ParseTarget(text string) (time.Duration, bool) {
	text = strings.TrimSpace(text)
	if minutes, err := strconv.ParseFloat(text, 64); err == nil {
		if math.IsNaN(minutes) || minutes < 0 || minutes >= maxTargetMinutes {
			return 0, false
		}
		return time.Duration(minutes * float64(time.Minute)), true
	}
	duration, err := time.ParseDuration(text)
	if err != nil || duration < 0 {
		return 0, false
	}
	return duration, true
}

func invoke(handler func()) {
	if handler != nil {
		handler()
	}
}

func setEnabled(button *widget.Button, enabled bool) {
	if enabled {
		button.Enable()
		return
	}
	button.Disable()
}
