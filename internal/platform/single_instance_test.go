package platform

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortFromNameIsStable(t *testing.T) {
	first := portFromName("LockedFlow")
	assert.Equal(t, first, portFromName("LockedFlow"))
	assert.GreaterOrEqual(t, first, 20000)
	assert.LessOrEqual(t, first, 39999)
}

func TestSecondInstanceIsRejectedAndWakes(t *testing.T) {
	appName := fmt.Sprintf("lockedflow-test-%d", time.Now().UnixNano())
	guard, err := AcquireSingleInstance(appName)
	if err != nil {
		t.Skipf("port unavailable: %v", err)
	}
	defer guard.Release()

	_, err = AcquireSingleInstance(appName)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	woken := make(chan struct{}, 1)
	go guard.Serve(func() { woken <- struct{}{} })

	require.NoError(t, WakeRunningInstance(appName))
	select {
	case <-woken:
	case <-time.After(2 * time.Second):
		t.Fatal("wake request was not delivered")
	}
}
