package shared

import (
	"fmt"
	"time"

	"github.com/alga4school/katysym/pkg/timeutil"
)

// ═══════════════════════════════════════════════════════════════════════════
// Date Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// DateRange is an inclusive interval of calendar dates.
// Invariant: From <= To (both truncated to midnight Almaty time).
type DateRange struct {
	From time.Time
	To   time.Time
}

// NewDateRange creates a DateRange, validating the ordering invariant.
func NewDateRange(from, to time.Time) (DateRange, error) {
	from = timeutil.StartOfDay(from)
	to = timeutil.StartOfDay(to)
	if from.After(to) {
		return DateRange{}, ErrBadDateRange
	}
	return DateRange{From: from, To: to}, nil
}

// SingleDay returns a range covering exactly one date.
func SingleDay(d time.Time) DateRange {
	d = timeutil.StartOfDay(d)
	return DateRange{From: d, To: d}
}

// Contains reports whether d falls inside the range, inclusive on both ends.
func (r DateRange) Contains(d time.Time) bool {
	d = timeutil.StartOfDay(d)
	return !d.Before(r.From) && !d.After(r.To)
}

// Days returns the number of calendar days in the range, inclusive.
func (r DateRange) Days() int {
	return int(r.To.Sub(r.From).Hours()/24) + 1
}

// EachDay walks every date in the range in ascending order, calling fn with
// each date at midnight Almaty time. Walking stops if fn returns false.
func (r DateRange) EachDay(fn func(d time.Time) bool) {
	for d := r.From; !d.After(r.To); d = d.AddDate(0, 0, 1) {
		if !fn(d) {
			return
		}
	}
}

// FromStr returns the start date as an ISO string.
func (r DateRange) FromStr() string {
	return timeutil.FormatDateStr(r.From)
}

// ToStr returns the end date as an ISO string.
func (r DateRange) ToStr() string {
	return timeutil.FormatDateStr(r.To)
}

// String returns a human-readable representation.
func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.FromStr(), r.ToStr())
}

// ParseDateRange builds a range from two ISO date strings.
func ParseDateRange(from, to string) (DateRange, error) {
	f, err := timeutil.ParseDate(from)
	if err != nil {
		return DateRange{}, WrapError("shared", "ParseDateRange", ErrInvalidFormat, "bad from date", err)
	}
	t, err := timeutil.ParseDate(to)
	if err != nil {
		return DateRange{}, WrapError("shared", "ParseDateRange", ErrInvalidFormat, "bad to date", err)
	}
	return NewDateRange(f, t)
}
