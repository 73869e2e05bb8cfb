// Package timeutil provides timezone utilities for Almaty timezone (UTC+5).
// School days in Katysym are calendar dates in the school's local time, so
// every date comparison and "today" lookup goes through this package.
// No external dependencies - uses only standard library.
package timeutil

import (
	"time"
)

// AlmatyTZ is the Almaty timezone (UTC+5, no DST).
// Kazakhstan abolished DST in 2005, so this is constant year-round.
var AlmatyTZ = time.FixedZone("Asia/Almaty", 5*60*60)

// Now returns the current time in Almaty timezone.
func Now() time.Time {
	return time.Now().In(AlmatyTZ)
}

// ToAlmaty converts a time to Almaty timezone.
func ToAlmaty(t time.Time) time.Time {
	return t.In(AlmatyTZ)
}

// Date creates a midnight time in Almaty timezone with the given date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, AlmatyTZ)
}

// StartOfDay returns the start of the day (00:00:00) in Almaty timezone.
func StartOfDay(t time.Time) time.Time {
	almaty := ToAlmaty(t)
	return time.Date(almaty.Year(), almaty.Month(), almaty.Day(), 0, 0, 0, 0, AlmatyTZ)
}

// StartOfMonth returns the first day of the month in Almaty timezone.
func StartOfMonth(year, month int) time.Time {
	return Date(year, month, 1)
}

// EndOfMonth returns the last day of the month in Almaty timezone.
func EndOfMonth(year, month int) time.Time {
	return Date(year, month, 1).AddDate(0, 1, -1)
}

// IsWeekend checks if the given time is on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	weekday := ToAlmaty(t).Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// IsSameDay checks if two times are on the same day in Almaty timezone.
func IsSameDay(t1, t2 time.Time) bool {
	a1, a2 := ToAlmaty(t1), ToAlmaty(t2)
	return a1.Year() == a2.Year() && a1.YearDay() == a2.YearDay()
}

// FormatDate is the standard ISO date format (YYYY-MM-DD) used on the wire,
// in export rows, and in guard keys.
const FormatDate = "2006-01-02"

// FormatDateStr formats a time as a date string (YYYY-MM-DD) in Almaty timezone.
func FormatDateStr(t time.Time) string {
	return ToAlmaty(t).Format(FormatDate)
}

// ParseDate parses an ISO date string (YYYY-MM-DD) as midnight in Almaty timezone.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(FormatDate, value, AlmatyTZ)
}
