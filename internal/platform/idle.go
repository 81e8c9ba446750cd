package platform

import "time"

// IdleProvider returns the duration since last user input.
type IdleProvider interface {
	IdleDuration() (time.Duration, error)
}

// NewIdleProvider returns a platform-specific idle provider. Providers
// return loop.ErrIdleUnsupported when detection is unavailable.
func NewIdleProvider() IdleProvider {
	return newIdleProvider()
}
