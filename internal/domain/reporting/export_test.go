package reporting

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alga4school/katysym/internal/domain/attendance"
	"github.com/alga4school/katysym/internal/domain/shared"
)

func exportReport() *attendance.Report {
	return &attendance.Report{
		Students: []attendance.Student{
			{ID: "s1", FullName: "Айгерім Нұрлан", Grade: "5", ClassLetter: "А"},
			{ID: "s2", FullName: "Данияр Серік", Grade: "7", ClassLetter: "Б"},
		},
		Daily: attendance.DailyRecord{
			"2025-09-09": {
				"s1": {Status: attendance.StatusLate},
			},
			"2025-09-08": {
				"s2": {Status: attendance.StatusSick},
			},
		},
		Totals: attendance.Totals{
			"s1": {attendance.StatusPresent: 1, attendance.StatusLate: 1},
			"s2": {attendance.StatusPresent: 1, attendance.StatusSick: 1},
		},
	}
}

func exportRange(t *testing.T) shared.DateRange {
	t.Helper()
	rng, err := shared.ParseDateRange("2025-09-08", "2025-09-09")
	require.NoError(t, err)
	return rng
}

func TestExportFilename(t *testing.T) {
	rng := exportRange(t)

	assert.Equal(t, "attendance_ALL_2025-09-08_to_2025-09-09.csv", ExportFilename("ALL", rng))
	assert.Equal(t, "attendance_5А_2025-09-08_to_2025-09-09.csv", ExportFilename("5а", rng))
}

func TestExportDailyShape(t *testing.T) {
	file, err := Export(exportReport(), exportRange(t), "ALL")
	require.NoError(t, err)

	content := string(file.Content)
	assert.True(t, strings.HasPrefix(content, "\uFEFF"), "UTF-8 BOM prefix")

	lines := strings.Split(strings.TrimPrefix(content, "\uFEFF"), "\n")
	require.Len(t, lines, 5, "header plus 2 dates x 2 students")
	assert.Equal(t, "date;student;class;status_code;status_kk;status_ru", lines[0])

	// Dates walk sorted; students walk in roster order. A student without a
	// record on a recorded date counts as present.
	assert.Equal(t, "2025-09-08;Айгерім Нұрлан;5А;katysty;Қатысты;Присутствовал(а)", lines[1])
	assert.Equal(t, "2025-09-08;Данияр Серік;7Б;auyrdy;Ауырды;Болел(а)", lines[2])
	assert.Equal(t, "2025-09-09;Айгерім Нұрлан;5А;keshikti;Кешікті;Опоздал(а)", lines[3])
	assert.Equal(t, "2025-09-09;Данияр Серік;7Б;katysty;Қатысты;Присутствовал(а)", lines[4])
}

func TestExportClassFilter(t *testing.T) {
	file, err := Export(exportReport(), exportRange(t), "5А")
	require.NoError(t, err)

	content := string(file.Content)
	assert.Contains(t, content, "Айгерім Нұрлан")
	assert.NotContains(t, content, "Данияр Серік")
	assert.Equal(t, "attendance_5А_2025-09-08_to_2025-09-09.csv", file.Name)
}

func TestExportTotalsFallback(t *testing.T) {
	report := exportReport()
	report.Daily = attendance.DailyRecord{}

	file, err := Export(report, exportRange(t), "ALL")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimPrefix(string(file.Content), "\uFEFF"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "student;class;present;late;sick;excused;unexcused;total", lines[0])
	assert.Equal(t, "Айгерім Нұрлан;5А;1;1;0;0;0;2", lines[1])
	assert.Equal(t, "Данияр Серік;7Б;1;0;1;0;0;2", lines[2])
}

func TestExportTotalsFallbackOmitsZeroStudents(t *testing.T) {
	report := exportReport()
	report.Daily = attendance.DailyRecord{}
	report.Totals["s2"] = attendance.StatusCount{}

	file, err := Export(report, exportRange(t), "ALL")
	require.NoError(t, err)

	assert.NotContains(t, string(file.Content), "Данияр Серік")
}

func TestExportNoData(t *testing.T) {
	report := &attendance.Report{
		Students: []attendance.Student{
			{ID: "s1", FullName: "Айгерім Нұрлан", Grade: "5", ClassLetter: "А"},
		},
	}

	_, err := Export(report, exportRange(t), "ALL")
	require.Error(t, err)
	assert.True(t, shared.IsNoData(err))
}

func TestWriteRowQuoting(t *testing.T) {
	var sb strings.Builder
	writeRow(&sb, []string{"plain", "has;delim", `has"quote`, "has\nnewline"})

	assert.Equal(t, `plain;"has;delim";"has""quote";"has`+"\n"+`newline"`, sb.String())
}

func TestWriteRowLeavesWhitespaceUnquoted(t *testing.T) {
	// Unlike encoding/csv, leading whitespace stays bare.
	var sb strings.Builder
	writeRow(&sb, []string{" padded", "plain"})

	assert.Equal(t, " padded;plain", sb.String())
}
