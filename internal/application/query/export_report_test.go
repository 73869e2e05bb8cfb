package query

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alga4school/katysym/internal/domain/attendance"
	"github.com/alga4school/katysym/internal/domain/period"
	"github.com/alga4school/katysym/internal/domain/shared"
	"github.com/alga4school/katysym/pkg/timeutil"
)

func TestExportReport(t *testing.T) {
	provider := &fakeProvider{report: statisticsReport()}
	clock := shared.FixedClock{T: timeutil.Date(2025, 9, 15)}
	h := NewExportReportHandler(provider, clock, nil)

	file, err := h.Handle(context.Background(), ExportReportQuery{
		Period: period.Selection{
			Type:  period.TypeCustom,
			Start: timeutil.Date(2025, 9, 1),
			End:   timeutil.Date(2025, 9, 5),
		},
		ClassLabel: "ALL",
	})
	require.NoError(t, err)

	assert.Equal(t, "attendance_ALL_2025-09-01_to_2025-09-05.csv", file.Name)
	content := string(file.Content)
	assert.True(t, strings.HasPrefix(content, "\uFEFF"))
	assert.Contains(t, content, "date;student;class;status_code")
	assert.Contains(t, content, "Айгерім Нұрлан")
}

func TestExportReportNoData(t *testing.T) {
	provider := &fakeProvider{report: &attendance.Report{}}
	clock := shared.FixedClock{T: timeutil.Date(2025, 9, 15)}
	h := NewExportReportHandler(provider, clock, nil)

	_, err := h.Handle(context.Background(), ExportReportQuery{
		Period:     period.Selection{Type: period.TypeDay, Date: timeutil.Date(2025, 9, 2)},
		ClassLabel: "ALL",
	})
	require.Error(t, err)
	assert.True(t, shared.IsNoData(err))
}

func TestExportReportInsufficientPeriodInput(t *testing.T) {
	provider := &fakeProvider{report: statisticsReport()}
	clock := shared.FixedClock{T: timeutil.Date(2025, 9, 15)}
	h := NewExportReportHandler(provider, clock, nil)

	_, err := h.Handle(context.Background(), ExportReportQuery{
		Period: period.Selection{Type: period.TypeMonth},
	})
	assert.True(t, shared.IsPeriodInput(err))
}
