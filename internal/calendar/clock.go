package calendar

import "time"

// Clock abstracts time.Now() to allow deterministic testing. The store uses
// it to determine "today" for birthday and event queries.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time. Birthdays are defined by the local
// calendar date of the person, not an absolute UTC timestamp.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always reports the same instant. Test helper.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time {
	return c.Instant
}
