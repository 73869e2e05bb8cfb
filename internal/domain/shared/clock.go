package shared

import (
	"time"

	"github.com/alga4school/katysym/pkg/timeutil"
)

// Clock abstracts "now" so period resolution is deterministic in tests.
// The week period rule walks backward from today; production code uses the
// Almaty system clock, tests pin a fixed date.
type Clock interface {
	Now() time.Time
}

// SystemClock returns the current time in the school's timezone.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return timeutil.Now()
}

// FixedClock always returns the same instant. Intended for tests.
type FixedClock struct {
	T time.Time
}

// Now implements Clock.
func (c FixedClock) Now() time.Time {
	return c.T
}
