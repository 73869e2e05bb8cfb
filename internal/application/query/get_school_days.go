package query

import (
	"context"

	"github.com/alga4school/katysym/internal/domain/calendar"
	"github.com/alga4school/katysym/internal/domain/period"
	"github.com/alga4school/katysym/internal/domain/shared"
	"github.com/alga4school/katysym/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCHOOL DAYS QUERY
// Backs the "оқу күндерінің саны" display counter: how many school days fall
// inside the currently selected period.
// ══════════════════════════════════════════════════════════════════════════════

// GetSchoolDaysQuery contains the period selection.
type GetSchoolDaysQuery struct {
	Period period.Selection
}

// SchoolDaysDTO is the counter plus the resolved range and the holiday list
// for display.
type SchoolDaysDTO struct {
	From       string   `json:"from"`
	To         string   `json:"to"`
	SchoolDays int      `json:"school_days"`
	Holidays   []string `json:"holidays"`
}

// GetSchoolDaysHandler handles school-day count queries.
type GetSchoolDaysHandler struct {
	clock    shared.Clock
	breaks   []calendar.OfficialBreak
	holidays calendar.HolidayStore
}

// NewGetSchoolDaysHandler creates the handler.
func NewGetSchoolDaysHandler(clock shared.Clock, breaks []calendar.OfficialBreak, holidays calendar.HolidayStore) *GetSchoolDaysHandler {
	return &GetSchoolDaysHandler{clock: clock, breaks: breaks, holidays: holidays}
}

// Handle resolves the period and counts school days inside it.
func (h *GetSchoolDaysHandler) Handle(ctx context.Context, q GetSchoolDaysQuery) (*SchoolDaysDTO, error) {
	rng, ok := period.Resolve(q.Period, h.clock)
	if !ok {
		return nil, shared.ErrPeriodInput
	}

	set := calendar.HolidaySet{}
	var holidayStrs []string
	if h.holidays != nil {
		days, err := h.holidays.List(ctx)
		if err != nil {
			return nil, err
		}
		holidayStrs = make([]string, 0, len(days))
		for _, d := range days {
			set.Add(d)
			holidayStrs = append(holidayStrs, timeutil.FormatDateStr(d))
		}
	}

	resolver := calendar.NewResolver(h.breaks, set)
	return &SchoolDaysDTO{
		From:       rng.FromStr(),
		To:         rng.ToStr(),
		SchoolDays: resolver.CountSchoolDays(rng),
		Holidays:   holidayStrs,
	}, nil
}
