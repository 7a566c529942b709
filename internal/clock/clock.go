// Package clock abstracts wall-clock access so the business timezone is
// applied in exactly one place and tests can pin the current instant.
package clock

import "time"

// Clock supplies the current time in the business timezone.
type Clock interface {
	Now() time.Time
}

// System reads the host clock and converts to the configured location.
type System struct {
	loc *time.Location
}

// NewSystem constructs a System clock for the given location.
func NewSystem(loc *time.Location) System {
	if loc == nil {
		loc = time.UTC
	}
	return System{loc: loc}
}

// Now returns the current instant in the business timezone, truncated to
// whole seconds to avoid sub-second precision drift in stored timestamps.
func (c System) Now() time.Time {
	return time.Now().In(c.loc).Truncate(time.Second)
}

// Fixed always reports the same instant. Intended for tests.
type Fixed struct {
	Instant time.Time
}

// Now returns the pinned instant.
func (f Fixed) Now() time.Time { return f.Instant }

// Day truncates an instant to its calendar day, keeping the location.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// MinuteOfDay returns minutes elapsed since local midnight.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
