// Package period turns a user-selected reporting granularity into a concrete
// inclusive date range. Missing inputs are a recoverable condition, not an
// error: Resolve returns ok=false and the caller prompts for more input.
package period

import (
	"time"

	"github.com/alga4school/katysym/internal/domain/shared"
	"github.com/alga4school/katysym/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// PERIOD TYPES
// ══════════════════════════════════════════════════════════════════════════════

// Type is the reporting granularity selector.
type Type string

const (
	TypeDay     Type = "day"
	TypeWeek    Type = "week"
	TypeMonth   Type = "month"
	TypeQuarter Type = "quarter"
	TypeYear    Type = "year"
	TypeAll     Type = "all"
	TypeCustom  Type = "custom"
)

// IsValid checks membership in the closed selector set.
func (t Type) IsValid() bool {
	switch t {
	case TypeDay, TypeWeek, TypeMonth, TypeQuarter, TypeYear, TypeAll, TypeCustom:
		return true
	}
	return false
}

// String returns the wire representation.
func (t Type) String() string {
	return string(t)
}

// DefaultQuarterBaseYear is the academic year the quarter table defaults to
// when the caller supplies none (the 2025-2026 school year).
const DefaultQuarterBaseYear = 2025

// Selection carries the period type plus its type-specific inputs. Zero
// values mean "not supplied".
type Selection struct {
	Type Type

	// Date is the explicit date for day periods.
	Date time.Time

	// Year and Month select a calendar month for month periods;
	// Year alone selects a calendar year for year periods.
	Year  int
	Month int

	// Quarter is the academic quarter index (1-4); QuarterBaseYear is the
	// year the academic year starts in.
	Quarter         int
	QuarterBaseYear int

	// Start and End are the explicit bounds for custom periods.
	Start time.Time
	End   time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// RESOLUTION
// ══════════════════════════════════════════════════════════════════════════════

// The week rule's lookback window and target day count. Walking backward from
// today, weekdays are collected until five are found or fourteen calendar
// days have been examined.
const (
	weekLookbackDays = 14
	weekSchoolDays   = 5
)

// Resolve converts a selection into a concrete inclusive date range.
// ok=false signals insufficient input: no date for day, no month for month,
// unknown quarter index. The clock supplies "today" for week and the default
// year for year.
//
// Custom ranges are passed through unchanged; callers must supply
// Start <= End. The ordering is a documented precondition, not a runtime
// check, matching the provider contract.
func Resolve(sel Selection, clock shared.Clock) (shared.DateRange, bool) {
	switch sel.Type {
	case TypeDay:
		if sel.Date.IsZero() {
			return shared.DateRange{}, false
		}
		return shared.SingleDay(sel.Date), true

	case TypeWeek:
		return resolveWeek(clock), true

	case TypeMonth:
		if sel.Year == 0 || sel.Month == 0 {
			return shared.DateRange{}, false
		}
		return shared.DateRange{
			From: timeutil.StartOfMonth(sel.Year, sel.Month),
			To:   timeutil.EndOfMonth(sel.Year, sel.Month),
		}, true

	case TypeYear:
		year := sel.Year
		if year == 0 {
			year = clock.Now().Year()
		}
		return shared.DateRange{
			From: timeutil.Date(year, 1, 1),
			To:   timeutil.Date(year, 12, 31),
		}, true

	case TypeQuarter:
		base := sel.QuarterBaseYear
		if base == 0 {
			base = DefaultQuarterBaseYear
		}
		return resolveQuarter(sel.Quarter, base)

	case TypeAll:
		// Wide sentinel meaning "no filtering by date".
		return shared.DateRange{
			From: timeutil.Date(2000, 1, 1),
			To:   timeutil.Date(2100, 1, 1),
		}, true

	case TypeCustom:
		if sel.Start.IsZero() || sel.End.IsZero() {
			return shared.DateRange{}, false
		}
		return shared.DateRange{
			From: timeutil.StartOfDay(sel.Start),
			To:   timeutil.StartOfDay(sel.End),
		}, true
	}

	return shared.DateRange{}, false
}

// resolveWeek collects the last five weekdays, walking back from today over
// at most fourteen calendar days. Only weekends are skipped: official breaks
// and manual holidays still count here, so a date inside a break can appear
// in the week range.
func resolveWeek(clock shared.Clock) shared.DateRange {
	today := timeutil.StartOfDay(clock.Now())

	var days []time.Time
	for i := 0; i < weekLookbackDays && len(days) < weekSchoolDays; i++ {
		d := today.AddDate(0, 0, -i)
		if !timeutil.IsWeekend(d) {
			days = append(days, d)
		}
	}

	// days is collected newest-first; the range runs oldest to newest.
	return shared.DateRange{
		From: days[len(days)-1],
		To:   days[0],
	}
}

// quarterBounds are static academic-calendar constants keyed by quarter
// index, expressed as month/day offsets from the base year. They align with
// the official break calendar but are not derived from it.
type quarterBound struct {
	fromYearOff, fromMonth, fromDay int
	toYearOff, toMonth, toDay       int
}

var quarterTable = map[int]quarterBound{
	1: {0, 9, 1, 0, 10, 26},
	2: {0, 11, 3, 0, 12, 28},
	3: {1, 1, 8, 1, 3, 18},
	4: {1, 3, 30, 1, 5, 25},
}

func resolveQuarter(quarter, baseYear int) (shared.DateRange, bool) {
	b, ok := quarterTable[quarter]
	if !ok {
		return shared.DateRange{}, false
	}
	return shared.DateRange{
		From: timeutil.Date(baseYear+b.fromYearOff, b.fromMonth, b.fromDay),
		To:   timeutil.Date(baseYear+b.toYearOff, b.toMonth, b.toDay),
	}, true
}
