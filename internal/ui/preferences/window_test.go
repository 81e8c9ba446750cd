package preferences

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowSave(t *testing.T) {
	app := test.NewTempApp(t)

	var saved *Settings
	prefs := New(app, DefaultSettings(), func(settings Settings) {
		saved = &settings
	})

	prefs.targetMin.SetText("50")
	prefs.tickMillis.SetText("oops")
	prefs.idleCheck.SetChecked(true)
	prefs.idleMin.SetText("2")
	prefs.journal.SetChecked(false)
	prefs.statusAddr.SetText(" 127.0.0.1:9425 ")
	prefs.handleSave()

	require.NotNil(t, saved)
	assert.Equal(t, 50*time.Minute, saved.TargetDuration)
	assert.Equal(t, 100*time.Millisecond, saved.TickInterval)
	assert.True(t, saved.IdlePauseEnabled)
	assert.Equal(t, 2*time.Minute, saved.IdlePauseAfter)
	assert.False(t, saved.JournalEnabled)
	assert.Equal(t, "127.0.0.1:9425", saved.StatusAddress)
}

func TestWindowSaveRejectsTickOutOfRange(t *testing.T) {
	app := test.NewTempApp(t)

	var saved *Settings
	prefs := New(app, DefaultSettings(), func(settings Settings) {
		saved = &settings
	})

	prefs.tickMillis.SetText("1")
	prefs.handleSave()
	require.NotNil(t, saved)
	assert.Equal(t, 100*time.Millisecond, saved.TickInterval)

	prefs.tickMillis.SetText("6000")
	prefs.handleSave()
	assert.Equal(t, 100*time.Millisecond, saved.TickInterval)

	prefs.tickMillis.SetText("10")
	prefs.handleSave()
	assert.Equal(t, 10*time.Millisecond, saved.TickInterval)
}
