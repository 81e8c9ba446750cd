package tray

import (
	"fmt"

	"lockedflow/internal/core/timer"
	"lockedflow/internal/ui/display"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnStart       func()
	OnPause       func()
	OnStop        func()
	OnReset       func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	callbacks  Callbacks
	menu       *fyne.Menu
	statusItem *fyne.MenuItem
	startItem  *fyne.MenuItem
	pauseItem  *fyne.MenuItem
	stopItem   *fyne.MenuItem
	resetItem  *fyne.MenuItem
}

// New creates a tray manager with the provided callbacks. A nil app builds
// the menu without installing it.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	show := fyne.NewMenuItem("Show timer", func() { invoke(manager.callbacks.OnShow) })
	manager.startItem = fyne.NewMenuItem("Start", func() { invoke(manager.callbacks.OnStart) })
	manager.pauseItem = fyne.NewMenuItem("Pause", func() { invoke(manager.callbacks.OnPause) })
	manager.stopItem = fyne.NewMenuItem("Stop", func() { invoke(manager.callbacks.OnStop) })
	manager.resetItem = fyne.NewMenuItem("Reset", func() { invoke(manager.callbacks.OnReset) })
	preferences := fyne.NewMenuItem("Preferences", func() { invoke(manager.callbacks.OnPreferences) })
	quit := fyne.NewMenuItem("Quit", func() { invoke(manager.callbacks.OnQuit) })
	quit.IsQuit = true

	manager.menu = fyne.NewMenu("LockedFlow",
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		show,
		manager.startItem,
		manager.pauseItem,
		manager.stopItem,
		manager.resetItem,
		fyne.NewMenuItemSeparator(),
		preferences,
		quit,
	)
	manager.Apply(timer.Snapshot{State: timer.StateStopped})

	return manager
}

// Apply updates the status line and enables the items valid for snapshot.
// The tray menu is only reinstalled when its content changes.
func (manager *Manager) Apply(snapshot timer.Snapshot) {
	status := fmt.Sprintf("%s %s", display.StateLabel(snapshot.State), display.FormatDuration(snapshot.Elapsed))
	if snapshot.HasTarget {
		status = fmt.Sprintf("%s (%d%%)", status, int(snapshot.Progress))
	}
	startLabel := "Start"
	if snapshot.State == timer.StatePaused {
		startLabel = "Resume"
	}

	changed := setLabel(manager.statusItem, "Status: "+status)
	changed = setLabel(manager.startItem, startLabel) || changed
	changed = setDisabled(manager.startItem, snapshot.State == timer.StateRunning) || changed
	changed = setDisabled(manager.pauseItem, snapshot.State != timer.StateRunning) || changed
	changed = setDisabled(manager.stopItem, snapshot.State == timer.StateStopped) || changed
	changed = setDisabled(manager.resetItem, snapshot.State == timer.StateStopped && snapshot.Elapsed == 0) || changed
	if changed {
		manager.refreshMenu()
	}
}

// Status returns the current status line.
func (manager *Manager) Status() string {
	return manager.statusItem.Label
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(manager.menu)
}

func setLabel(item *fyne.MenuItem, label string) bool {
	if item.Label == label {
		return false
	}
	item.Label = label
	return true
}

func setDisabled(item *fyne.MenuItem, disabled bool) bool {
	if item.Disabled == disabled {
		return false
	}
	item.Disabled = disabled
	return true
}

func invoke(handler func()) {
	if handler != nil {
		handler()
	}
}
