package reporting

import (
	"time"

	"github.com/alga4school/katysym/internal/domain/attendance"
	"github.com/alga4school/katysym/internal/domain/shared"
	"github.com/alga4school/katysym/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ISSUE LISTS
// ══════════════════════════════════════════════════════════════════════════════

// IssueEntry names one student with a non-present mark in the range.
type IssueEntry struct {
	Name  string `json:"name"`
	Class string `json:"class"`
}

// Issues groups issue entries per category for one reporting range.
type Issues struct {
	Late      []IssueEntry `json:"late"`
	Sick      []IssueEntry `json:"sick"`
	Excused   []IssueEntry `json:"excused"`
	Unexcused []IssueEntry `json:"unexcused"`
}

// Empty reports whether every category is empty.
func (i Issues) Empty() bool {
	return len(i.Late) == 0 && len(i.Sick) == 0 && len(i.Excused) == 0 && len(i.Unexcused) == 0
}

func dateKey(d time.Time) string {
	return timeutil.FormatDateStr(d)
}

// BuildIssuesForRange collects per-category lists of students with
// non-present marks over every calendar date in the range. All dates are
// scanned, weekends included: non-school dates simply have no records in the
// source data.
//
// Deduplication: a student appears at most once per category across the whole
// range, first occurrence wins. Categories are independent, so the same
// student can show up once in late and once in sick. Totals remain the
// non-deduplicated source for counts.
func BuildIssuesForRange(report *attendance.Report, rng shared.DateRange) Issues {
	byID := report.StudentByID()

	var issues Issues
	seen := map[attendance.StatusCode]map[string]struct{}{
		attendance.StatusLate:      {},
		attendance.StatusSick:      {},
		attendance.StatusExcused:   {},
		attendance.StatusUnexcused: {},
	}

	place := func(id string, mark attendance.Mark) {
		if !mark.Status.IsIssue() {
			return
		}
		if _, dup := seen[mark.Status][id]; dup {
			return
		}
		seen[mark.Status][id] = struct{}{}

		// Marks for ids missing from the roster still belong in the
		// lists; the raw id stands in for the name.
		entry := IssueEntry{Name: id}
		if s, ok := byID[id]; ok {
			entry = IssueEntry{Name: s.FullName, Class: s.Class()}
		}

		switch mark.Status {
		case attendance.StatusLate:
			issues.Late = append(issues.Late, entry)
		case attendance.StatusSick:
			issues.Sick = append(issues.Sick, entry)
		case attendance.StatusExcused:
			issues.Excused = append(issues.Excused, entry)
		case attendance.StatusUnexcused:
			issues.Unexcused = append(issues.Unexcused, entry)
		}
	}

	rng.EachDay(func(d time.Time) bool {
		dayRecords, ok := report.Daily[dateKey(d)]
		if !ok {
			return true
		}

		// Map iteration order is random; walk the roster first so
		// first-occurrence dedup stays deterministic within a date.
		for _, s := range report.Students {
			if mark, ok := dayRecords[s.ID]; ok {
				place(s.ID, mark)
			}
		}
		for id, mark := range dayRecords {
			if _, known := byID[id]; !known {
				place(id, mark)
			}
		}
		return true
	})

	return issues
}
