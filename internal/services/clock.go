package services

import "time"

// Clock tells the services what "now" is.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock.
func SystemClock() Clock { return systemClock{} }

// ClockFunc adapts a plain function, mostly for tests.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }
