package utils

import "time"

// Clock abstracts the current time so flows can be tested on fixed dates.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
