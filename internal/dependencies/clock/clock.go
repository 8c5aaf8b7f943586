package clock

import "time"

// Clock provides the current time. Session timestamps come from here so tests
// can pin them.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// New creates a new SystemClock
func New() *SystemClock {
	return &SystemClock{}
}

// Now returns the current time in UTC, truncated to milliseconds so it
// survives a round trip through stored JSON unchanged
func (c *SystemClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
