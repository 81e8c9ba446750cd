package preferences

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTarget(t *testing.T) {
	settings := DefaultSettings()

	target, ok := settings.Target()
	assert.True(t, ok)
	assert.Equal(t, 25*time.Minute, target)

	settings.TargetEnabled = false
	_, ok = settings.Target()
	assert.False(t, ok)
}

func TestLoopConfig(t *testing.T) {
	settings := DefaultSettings()
	settings.IdlePauseEnabled = true
	settings.IdlePauseAfter = 3 * time.Minute

	config := settings.LoopConfig()

	assert.Equal(t, 100*time.Millisecond, config.TickInterval)
	assert.True(t, config.IdlePause.Enabled)
	assert.Equal(t, 3*time.Minute, config.IdlePause.After)
	assert.Equal(t, 5*time.Second, config.IdlePause.CheckInterval)
}

func TestValidTickInterval(t *testing.T) {
	assert.True(t, ValidTickInterval(10*time.Millisecond))
	assert.True(t, ValidTickInterval(5*time.Second))
	assert.False(t, ValidTickInterval(time.Millisecond))
	assert.False(t, ValidTickInterval(5001*time.Millisecond))
}

func TestParsePositiveInt(t *testing.T) {
	value, ok := parsePositiveInt(" 45 ")
	assert.True(t, ok)
	assert.Equal(t, 45, value)

	_, ok = parsePositiveInt("0")
	assert.False(t, ok)
	_, ok = parsePositiveInt("ten")
	assert.False(t, ok)
}
