package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock stamps prediction events and flood model training times.
var clock = clockwork.NewRealClock()

// SetClock replaces the time source, typically with a fake clock in tests.
// nil restores the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	clock = c
}

// Now reports the current time of the package clock.
func Now() time.Time {
	return clock.Now()
}
