package interfaces

import "time"

// Timer is a pending callback that can be stopped before it fires.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the timer was pending.
	Stop() bool
}

// Clock abstracts time so debounce and display windows can be driven by tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// SystemClock returns a Clock backed by the time package.
func SystemClock() Clock { return systemClock{} }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
