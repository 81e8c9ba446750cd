//go:build !linux && !windows

package platform

import (
	"time"

	"lockedflow/internal/core/loop"
)

type unsupportedIdleProvider struct{}

func newIdleProvider() IdleProvider {
	return unsupportedIdleProvider{}
}

func (unsupportedIdleProvider) IdleDuration() (time.Duration, error) {
	return 0, loop.ErrIdleUnsupported
}
