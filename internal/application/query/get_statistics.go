// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"

	"github.com/alga4school/katysym/internal/domain/attendance"
	"github.com/alga4school/katysym/internal/domain/calendar"
	"github.com/alga4school/katysym/internal/domain/period"
	"github.com/alga4school/katysym/internal/domain/reporting"
	"github.com/alga4school/katysym/internal/domain/shared"
	"github.com/alga4school/katysym/internal/infrastructure/external/sheets"
	"github.com/alga4school/katysym/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STATISTICS QUERY
// Бір сұраныспен: период → диапазон → есеп → KPI, TOP, тізімдер.
// Resolves the selected period, fetches the report snapshot, and aggregates
// it into the KPI totals, offender rankings, and issue lists in one pass.
// ══════════════════════════════════════════════════════════════════════════════

// ReportProvider is the slice of the provider client the queries need.
type ReportProvider interface {
	FetchReport(ctx context.Context, rng shared.DateRange, filter sheets.ClassFilter) (*attendance.Report, error)
}

// GetStatisticsQuery contains the period selection and class filter.
type GetStatisticsQuery struct {
	// Period is the reporting granularity with its inputs.
	Period period.Selection

	// ClassLabel filters to one class; "ALL" or empty means every class.
	ClassLabel string
}

// StatisticsDTO is the aggregated answer for the reports page.
type StatisticsDTO struct {
	From string `json:"from"`
	To   string `json:"to"`

	// SchoolDays counts school days inside the resolved range.
	SchoolDays int `json:"school_days"`

	Summary reporting.Summary `json:"summary"`

	TopLate      []reporting.TopEntry `json:"top_late"`
	TopUnexcused []reporting.TopEntry `json:"top_unexcused"`

	Issues reporting.Issues `json:"issues"`
}

// GetStatisticsHandler handles statistics queries.
type GetStatisticsHandler struct {
	provider ReportProvider
	clock    shared.Clock
	breaks   []calendar.OfficialBreak
	holidays calendar.HolidayStore
	logger   *logger.Logger
}

// NewGetStatisticsHandler creates the handler.
func NewGetStatisticsHandler(
	provider ReportProvider,
	clock shared.Clock,
	breaks []calendar.OfficialBreak,
	holidays calendar.HolidayStore,
	log *logger.Logger,
) *GetStatisticsHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetStatisticsHandler{
		provider: provider,
		clock:    clock,
		breaks:   breaks,
		holidays: holidays,
		logger:   log.With(logger.Component("query.get_statistics")),
	}
}

// Handle resolves the period and aggregates one fresh report snapshot.
// Insufficient period input surfaces as shared.ErrPeriodInput so the caller
// can prompt for more input instead of failing.
func (h *GetStatisticsHandler) Handle(ctx context.Context, q GetStatisticsQuery) (*StatisticsDTO, error) {
	rng, ok := period.Resolve(q.Period, h.clock)
	if !ok {
		return nil, shared.ErrPeriodInput
	}

	filter, err := classFilter(q.ClassLabel)
	if err != nil {
		return nil, err
	}

	report, err := h.provider.FetchReport(ctx, rng, filter)
	if err != nil {
		return nil, err
	}

	resolver, err := schoolDayResolver(ctx, h.breaks, h.holidays)
	if err != nil {
		return nil, err
	}

	dto := &StatisticsDTO{
		From:         rng.FromStr(),
		To:           rng.ToStr(),
		SchoolDays:   resolver.CountSchoolDays(rng),
		Summary:      reporting.SumTotals(report),
		TopLate:      reporting.BuildTop(report, attendance.StatusLate, reporting.DefaultTopLimit),
		TopUnexcused: reporting.BuildTop(report, attendance.StatusUnexcused, reporting.DefaultTopLimit),
		Issues:       reporting.BuildIssuesForRange(report, rng),
	}

	h.logger.Info("statistics built",
		logger.PeriodType(q.Period.Type.String()),
		logger.RangeFrom(dto.From),
		logger.RangeTo(dto.To),
		logger.ClassLabel(q.ClassLabel),
		logger.Int("students", len(report.Students)),
	)
	return dto, nil
}

// classFilter maps a class label onto the provider filter.
func classFilter(label string) (sheets.ClassFilter, error) {
	if label == "" || attendance.IsAll(label) {
		return sheets.FilterAll(), nil
	}
	ref, err := attendance.ParseClass(label)
	if err != nil {
		return sheets.ClassFilter{}, err
	}
	return sheets.FilterClass(ref), nil
}

// schoolDayResolver snapshots the holiday store into a pure resolver.
func schoolDayResolver(ctx context.Context, breaks []calendar.OfficialBreak, store calendar.HolidayStore) (*calendar.Resolver, error) {
	set := calendar.HolidaySet{}
	if store != nil {
		days, err := store.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, d := range days {
			set.Add(d)
		}
	}
	return calendar.NewResolver(breaks, set), nil
}
