// Package calendar decides which dates count as school days.
// A date is not a school day if it is a weekend, falls inside an official
// academic break, or was manually marked as a holiday by the school.
package calendar

import (
	"time"

	"github.com/alga4school/katysym/internal/domain/shared"
	"github.com/alga4school/katysym/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// OFFICIAL BREAKS
// ══════════════════════════════════════════════════════════════════════════════

// OfficialBreak is a fixed inclusive interval from the static academic
// calendar. Immutable for a given academic year.
type OfficialBreak struct {
	From time.Time
	To   time.Time
}

// Contains reports whether d falls inside the break, inclusive on both ends.
func (b OfficialBreak) Contains(d time.Time) bool {
	d = timeutil.StartOfDay(d)
	return !d.Before(b.From) && !d.After(b.To)
}

// Breaks2025 is the official 2025-2026 academic year break calendar.
// Күзгі, қысқы, көктемгі каникулдар.
func Breaks2025() []OfficialBreak {
	return []OfficialBreak{
		{From: timeutil.Date(2025, 10, 27), To: timeutil.Date(2025, 11, 2)},
		{From: timeutil.Date(2025, 12, 29), To: timeutil.Date(2026, 1, 7)},
		{From: timeutil.Date(2026, 3, 19), To: timeutil.Date(2026, 3, 29)},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// HOLIDAY SET
// ══════════════════════════════════════════════════════════════════════════════

// HolidaySet is the set of ISO dates manually marked as non-school days.
// Owned by configuration; persisted through a HolidayStore.
type HolidaySet map[string]struct{}

// NewHolidaySet builds a set from ISO date strings.
func NewHolidaySet(dates ...string) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return set
}

// Has reports whether the date is marked as a holiday.
func (h HolidaySet) Has(d time.Time) bool {
	_, ok := h[timeutil.FormatDateStr(d)]
	return ok
}

// Add marks a date as a holiday.
func (h HolidaySet) Add(d time.Time) {
	h[timeutil.FormatDateStr(d)] = struct{}{}
}

// Remove unmarks a date.
func (h HolidaySet) Remove(d time.Time) {
	delete(h, timeutil.FormatDateStr(d))
}

// ══════════════════════════════════════════════════════════════════════════════
// RESOLVER
// ══════════════════════════════════════════════════════════════════════════════

// Resolver answers school-day questions for a fixed break calendar and a
// holiday set snapshot. Pure: no side effects, no clock access.
type Resolver struct {
	breaks   []OfficialBreak
	holidays HolidaySet
}

// NewResolver creates a resolver over the given configuration.
// A nil holiday set is treated as empty.
func NewResolver(breaks []OfficialBreak, holidays HolidaySet) *Resolver {
	if holidays == nil {
		holidays = HolidaySet{}
	}
	return &Resolver{breaks: breaks, holidays: holidays}
}

// IsSchoolDay reports whether d counts as a school day: not a weekend, not
// inside any official break, and not manually marked as a holiday.
func (r *Resolver) IsSchoolDay(d time.Time) bool {
	if timeutil.IsWeekend(d) {
		return false
	}
	for _, b := range r.breaks {
		if b.Contains(d) {
			return false
		}
	}
	return !r.holidays.Has(d)
}

// CountSchoolDays counts school days in the range, inclusive on both ends.
// Linear scan: breaks and holidays are irregular, so there is no closed form.
func (r *Resolver) CountSchoolDays(rng shared.DateRange) int {
	count := 0
	rng.EachDay(func(d time.Time) bool {
		if r.IsSchoolDay(d) {
			count++
		}
		return true
	})
	return count
}
