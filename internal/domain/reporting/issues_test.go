package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alga4school/katysym/internal/domain/attendance"
	"github.com/alga4school/katysym/internal/domain/shared"
)

func issuesReport() *attendance.Report {
	return &attendance.Report{
		Students: []attendance.Student{
			{ID: "s1", FullName: "Айгерім Нұрлан", Grade: "5", ClassLetter: "А"},
			{ID: "s2", FullName: "Данияр Серік", Grade: "5", ClassLetter: "А"},
		},
		Daily: attendance.DailyRecord{
			"2025-09-08": {
				"s1": {Status: attendance.StatusLate},
				"s2": {Status: attendance.StatusSick},
			},
			"2025-09-09": {
				"s1": {Status: attendance.StatusLate},
				"s2": {Status: attendance.StatusLate},
			},
			"2025-09-10": {
				"s1": {Status: attendance.StatusPresent},
				"s2": {Status: attendance.StatusUnexcused},
			},
		},
	}
}

func TestBuildIssuesDeduplicates(t *testing.T) {
	rng, err := shared.ParseDateRange("2025-09-08", "2025-09-10")
	require.NoError(t, err)

	issues := BuildIssuesForRange(issuesReport(), rng)

	// s1 was late twice but appears once, first occurrence wins.
	require.Len(t, issues.Late, 2)
	assert.Equal(t, "Айгерім Нұрлан", issues.Late[0].Name)
	assert.Equal(t, "5А", issues.Late[0].Class)
	assert.Equal(t, "Данияр Серік", issues.Late[1].Name)

	require.Len(t, issues.Sick, 1)
	assert.Equal(t, "Данияр Серік", issues.Sick[0].Name)

	require.Len(t, issues.Unexcused, 1)
	assert.Equal(t, "Данияр Серік", issues.Unexcused[0].Name)

	// Present marks never become issues.
	assert.Empty(t, issues.Excused)
}

func TestBuildIssuesCategoriesIndependent(t *testing.T) {
	rng, err := shared.ParseDateRange("2025-09-08", "2025-09-10")
	require.NoError(t, err)

	issues := BuildIssuesForRange(issuesReport(), rng)

	// The same student counts once per category, not once overall.
	names := func(entries []IssueEntry) []string {
		out := make([]string, 0, len(entries))
		for _, e := range entries {
			out = append(out, e.Name)
		}
		return out
	}
	assert.Contains(t, names(issues.Late), "Данияр Серік")
	assert.Contains(t, names(issues.Sick), "Данияр Серік")
	assert.Contains(t, names(issues.Unexcused), "Данияр Серік")
}

func TestBuildIssuesRespectsRange(t *testing.T) {
	rng, err := shared.ParseDateRange("2025-09-09", "2025-09-09")
	require.NoError(t, err)

	issues := BuildIssuesForRange(issuesReport(), rng)

	assert.Len(t, issues.Late, 2)
	assert.Empty(t, issues.Sick)
	assert.Empty(t, issues.Unexcused)
}

func TestBuildIssuesUnknownStudentID(t *testing.T) {
	report := &attendance.Report{
		Students: []attendance.Student{
			{ID: "s1", FullName: "Айгерім Нұрлан", Grade: "5", ClassLetter: "А"},
		},
		Daily: attendance.DailyRecord{
			"2025-09-08": {
				"ghost": {Status: attendance.StatusSick},
			},
		},
	}

	rng, err := shared.ParseDateRange("2025-09-08", "2025-09-08")
	require.NoError(t, err)

	issues := BuildIssuesForRange(report, rng)

	// The raw id stands in for an unknown student's name.
	require.Len(t, issues.Sick, 1)
	assert.Equal(t, "ghost", issues.Sick[0].Name)
	assert.Empty(t, issues.Sick[0].Class)
}

func TestBuildIssuesEmpty(t *testing.T) {
	rng, err := shared.ParseDateRange("2026-01-01", "2026-01-05")
	require.NoError(t, err)

	issues := BuildIssuesForRange(issuesReport(), rng)
	assert.True(t, issues.Empty())
}
