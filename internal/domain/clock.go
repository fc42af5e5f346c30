// Package domain holds the greeter's constants, sentinel errors, and the
// clock abstraction shared by the other packages.
package domain

import "time"

// Clock provides the current time. Implementations may be real (production)
// or deterministic (testing).
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns time.Now().
func (RealClock) Now() time.Time {
	return time.Now()
}

// Since returns the time elapsed since start according to c.
func Since(c Clock, start time.Time) time.Duration {
	return c.Now().Sub(start)
}

// Ensure RealClock implements Clock at compile time.
var _ Clock = RealClock{}
