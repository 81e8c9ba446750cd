package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window      fyne.Window
	settings    Settings
	onSave      func(Settings)
	targetCheck *widget.Check
	targetMin   *widget.Entry
	tickMillis  *widget.Entry
	idleCheck   *widget.Check
	idleMin     *widget.Entry
	restore     *widget.Check
	journal     *widget.Check
	statusAddr  *widget.Entry
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("LockedFlow Settings")

	prefs := &Window{
		window:      window,
		onSave:      onSave,
		targetCheck: widget.NewCheck("Count down to a target", nil),
		targetMin:   widget.NewEntry(),
		tickMillis:  widget.NewEntry(),
		idleCheck:   widget.NewCheck("Pause when idle", nil),
		idleMin:     widget.NewEntry(),
		restore:     widget.NewCheck("Restore elapsed time on start", nil),
		journal:     widget.NewCheck("Keep session history", nil),
		statusAddr:  widget.NewEntry(),
	}
	prefs.statusAddr.SetPlaceHolder("disabled")
	prefs.UpdateSettings(settings)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.targetCheck,
		container.NewHBox(widget.NewLabel("Target"), prefs.targetMin, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Refresh every"), prefs.tickMillis, widget.NewLabel("ms")),
		prefs.idleCheck,
		container.NewHBox(widget.NewLabel("Idle for"), prefs.idleMin, widget.NewLabel("min")),
		widget.NewLabelWithStyle("Session", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.restore,
		prefs.journal,
		widget.NewLabel("Status API address"),
		prefs.statusAddr,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", window.Hide)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(380, 420))
	window.SetCloseIntercept(window.Hide)

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.targetCheck.SetChecked(settings.TargetEnabled)
	prefs.targetMin.SetText(fmt.Sprintf("%d", int(settings.TargetDuration.Minutes())))
	prefs.tickMillis.SetText(fmt.Sprintf("%d", settings.TickInterval.Milliseconds()))
	prefs.idleCheck.SetChecked(settings.IdlePauseEnabled)
	prefs.idleMin.SetText(fmt.Sprintf("%d", int(settings.IdlePauseAfter.Minutes())))
	prefs.restore.SetChecked(settings.RestoreOnStart)
	prefs.journal.SetChecked(settings.JournalEnabled)
	prefs.statusAddr.SetText(settings.StatusAddress)
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if minutes, ok := parsePositiveInt(prefs.targetMin.Text); ok {
		settings.TargetDuration = time.Duration(minutes) * time.Minute
	}
	if millis, ok := parsePositiveInt(prefs.tickMillis.Text); ok {
		if tick := time.Duration(millis) * time.Millisecond; ValidTickInterval(tick) {
			settings.TickInterval = tick
		}
	}
	if minutes, ok := parsePositiveInt(prefs.idleMin.Text); ok {
		settings.IdlePauseAfter = time.Duration(minutes) * time.Minute
	}

	settings.TargetEnabled = prefs.targetCheck.Checked
	settings.IdlePauseEnabled = prefs.idleCheck.Checked
	settings.RestoreOnStart = prefs.restore.Checked
	settings.JournalEnabled = prefs.journal.Checked
	settings.StatusAddress = strings.TrimSpace(prefs.statusAddr.Text)

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
