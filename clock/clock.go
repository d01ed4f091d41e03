package clock

import "time"

/*
This package abstracts time away from the cache.

Freshness decisions and timeout races both depend on time, and tests need
to simulate elapsed time deterministically instead of sleeping. The cache
therefore never calls time.Now or time.NewTimer directly; it goes through
a Clock that can be swapped for a mock.
*/

// Clock is the time source the cache depends on.
type Clock interface {

	// Now returns the current instant.
	Now() time.Time

	// NewTimer returns a timer that fires once after d.
	NewTimer(d time.Duration) Timer
}

// Timer is the subset of time.Timer behavior the cache relies on.
type Timer interface {

	// C returns the channel the firing instant is delivered on.
	C() <-chan time.Time

	// Stop prevents the timer from firing. It reports whether the stop
	// happened before the timer fired.
	Stop() bool
}

// System returns a Clock backed by the time package.
func System() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) NewTimer(d time.Duration) Timer {
	return systemTimer{t: time.NewTimer(d)}
}

type systemTimer struct {
	t *time.Timer
}

func (t systemTimer) C() <-chan time.Time {
	return t.t.C
}

func (t systemTimer) Stop() bool {
	return t.t.Stop()
}
