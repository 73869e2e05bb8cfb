// Package reporting aggregates raw attendance reports into KPI totals,
// ranked offender lists, deduplicated issue lists, and CSV exports.
// All functions here are pure over an immutable Report snapshot.
package reporting

import (
	"sort"

	"github.com/alga4school/katysym/internal/domain/attendance"
)

// ══════════════════════════════════════════════════════════════════════════════
// KPI TOTALS
// ══════════════════════════════════════════════════════════════════════════════

// Summary holds the KPI counters shown on the reports page.
type Summary struct {
	Total     int `json:"total"`
	Present   int `json:"present"`
	Late      int `json:"late"`
	Sick      int `json:"sick"`
	Excused   int `json:"excused"`
	Unexcused int `json:"unexcused"`
}

// SumTotals adds every student's per-status counts into running totals plus
// a grand total. Integer arithmetic only; summation order does not matter.
func SumTotals(report *attendance.Report) Summary {
	var s Summary
	for _, counts := range report.Totals {
		for _, code := range attendance.AllStatuses {
			n := counts.Get(code)
			s.Total += n
			switch code {
			case attendance.StatusPresent:
				s.Present += n
			case attendance.StatusLate:
				s.Late += n
			case attendance.StatusSick:
				s.Sick += n
			case attendance.StatusExcused:
				s.Excused += n
			case attendance.StatusUnexcused:
				s.Unexcused += n
			}
		}
	}
	return s
}

// ══════════════════════════════════════════════════════════════════════════════
// TOP OFFENDERS
// ══════════════════════════════════════════════════════════════════════════════

// DefaultTopLimit caps the ranked offender list.
const DefaultTopLimit = 10

// topThreshold is the minimum count (exclusive) for a student to appear in
// the ranking: four or more occurrences.
const topThreshold = 3

// TopEntry is one row of the offender ranking.
type TopEntry struct {
	Name  string `json:"name"`
	Class string `json:"class"`
	Count int    `json:"count"`
}

// BuildTop ranks students by their count for one status code. Students with
// counts of three or fewer are excluded; the rest sort descending by count
// with ties kept in roster order, truncated to limit entries.
func BuildTop(report *attendance.Report, code attendance.StatusCode, limit int) []TopEntry {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	entries := make([]TopEntry, 0, len(report.Students))
	for _, s := range report.Students {
		count := report.CountFor(s.ID, code)
		if count <= topThreshold {
			continue
		}
		entries = append(entries, TopEntry{
			Name:  s.FullName,
			Class: s.Class(),
			Count: count,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
