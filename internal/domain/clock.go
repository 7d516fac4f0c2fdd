package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is a package-level time source so tests can freeze "today" and the
// current year via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Clock returns the active time source.
func Clock() clockwork.Clock {
	return clock
}

// CurrentYear is the upper bound for every year field.
func CurrentYear() int {
	return clock.Now().Year()
}

// Today returns the current local calendar date.
func Today() CalendarDate {
	return DateOf(clock.Now())
}

// DateOf converts a time to its calendar date in the time's own location.
func DateOf(t time.Time) CalendarDate {
	return CalendarDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}
