package timer

import "time"

// Clock supplies the current time. Readings must carry a monotonic
// component so that wall-clock adjustments do not affect elapsed time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now, which includes a monotonic reading.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}
