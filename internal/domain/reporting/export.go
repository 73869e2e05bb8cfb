package reporting

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/alga4school/katysym/internal/domain/attendance"
	"github.com/alga4school/katysym/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CSV EXPORT
// ══════════════════════════════════════════════════════════════════════════════

// Spreadsheet tools expect semicolon-delimited text with a UTF-8 BOM.
const (
	exportDelimiter = ";"
	exportBOM       = "\uFEFF"
)

var (
	headerDaily  = []string{"date", "student", "class", "status_code", "status_kk", "status_ru"}
	headerTotals = []string{"student", "class", "present", "late", "sick", "excused", "unexcused", "total"}
)

// ExportFile is the generated byte content plus its deterministic name.
type ExportFile struct {
	Name    string
	Content []byte
}

// ExportFilename builds the deterministic download name from the selected
// class label ("ALL" when unfiltered) and the resolved range.
func ExportFilename(classLabel string, rng shared.DateRange) string {
	cls := attendance.AllClasses
	if !attendance.IsAll(classLabel) {
		cls = attendance.NormalizeClassLabel(classLabel)
	}
	return fmt.Sprintf("attendance_%s_%s_to_%s.csv", cls, rng.FromStr(), rng.ToStr())
}

// Export serializes a report for the selected class into semicolon-delimited
// text. Two mutually exclusive shapes, chosen by data availability:
//
//  1. Daily shape: one row per (date, student) pair when the report has any
//     daily records in the filtered scope, with localized status labels.
//  2. Totals fallback: one row per student with non-zero totals.
//
// When both shapes yield zero rows the export fails with a NoData condition
// and no file is produced.
func Export(report *attendance.Report, rng shared.DateRange, classLabel string) (ExportFile, error) {
	wantAll := attendance.IsAll(classLabel)
	wantNorm := ""
	if !wantAll {
		wantNorm = attendance.NormalizeClassLabel(classLabel)
	}

	matches := func(s attendance.Student) bool {
		return wantAll || attendance.NormalizeClassLabel(s.Class()) == wantNorm
	}

	header := headerDaily
	rows := dailyRows(report, matches)

	if len(rows) == 0 {
		header = headerTotals
		rows = totalsRows(report, matches)
	}
	if len(rows) == 0 {
		return ExportFile{}, shared.ErrNoExportRows
	}

	var sb strings.Builder
	sb.WriteString(exportBOM)
	writeRow(&sb, header)
	for _, row := range rows {
		sb.WriteString("\n")
		writeRow(&sb, row)
	}

	return ExportFile{
		Name:    ExportFilename(classLabel, rng),
		Content: []byte(sb.String()),
	}, nil
}

// dailyRows emits one row per (date, student) pair present in the daily
// mapping. Dates walk in sorted order; students walk in roster order. A
// student without a record on a recorded date counts as present.
func dailyRows(report *attendance.Report, matches func(attendance.Student) bool) [][]string {
	dates := make([]string, 0, len(report.Daily))
	for d := range report.Daily {
		dates = append(dates, d)
	}
	// ISO dates sort chronologically as strings.
	sort.Strings(dates)

	var rows [][]string
	for _, date := range dates {
		byID := report.Daily[date]
		for _, s := range report.Students {
			if !matches(s) {
				continue
			}
			mark := attendance.Mark{Status: attendance.StatusPresent}
			if m, ok := byID[s.ID]; ok {
				mark = m
			}
			rows = append(rows, []string{
				date,
				s.FullName,
				s.Class(),
				mark.Status.String(),
				mark.Kk(),
				mark.Ru(),
			})
		}
	}
	return rows
}

// totalsRows emits one row per student with a non-zero total across all
// statuses. Students with all-zero totals are omitted entirely.
func totalsRows(report *attendance.Report, matches func(attendance.Student) bool) [][]string {
	var rows [][]string
	for _, s := range report.Students {
		if !matches(s) {
			continue
		}
		counts := report.Totals[s.ID]
		total := counts.Sum()
		if total == 0 {
			continue
		}
		rows = append(rows, []string{
			s.FullName,
			s.Class(),
			strconv.Itoa(counts.Get(attendance.StatusPresent)),
			strconv.Itoa(counts.Get(attendance.StatusLate)),
			strconv.Itoa(counts.Get(attendance.StatusSick)),
			strconv.Itoa(counts.Get(attendance.StatusExcused)),
			strconv.Itoa(counts.Get(attendance.StatusUnexcused)),
			strconv.Itoa(total),
		})
	}
	return rows
}

// writeRow joins fields with the delimiter, quoting any field containing the
// delimiter, a double quote, or a newline, with internal quotes doubled.
// encoding/csv is close but additionally quotes leading whitespace and \r,
// which would change existing exports, so the rule is spelled out here.
func writeRow(sb *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			sb.WriteString(exportDelimiter)
		}
		if strings.ContainsAny(f, exportDelimiter+"\"\n") {
			sb.WriteString("\"")
			sb.WriteString(strings.ReplaceAll(f, "\"", "\"\""))
			sb.WriteString("\"")
		} else {
			sb.WriteString(f)
		}
	}
}
