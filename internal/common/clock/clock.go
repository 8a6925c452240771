package clock

import "time"

type Clock interface {
	Now() time.Time
}

// DefaultClock implements the Clock interface using the system clock
type DefaultClock struct{}

func (c *DefaultClock) Now() time.Time {
	return time.Now()
}

// Fixed always reports the same instant.
type Fixed struct {
	At time.Time
}

func (f *Fixed) Now() time.Time {
	return f.At
}
