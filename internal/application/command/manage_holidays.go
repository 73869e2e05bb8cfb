package command

import (
	"context"
	"sort"

	"github.com/alga4school/katysym/internal/domain/calendar"
	"github.com/alga4school/katysym/internal/domain/shared"
	"github.com/alga4school/katysym/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// MANAGE HOLIDAYS COMMAND
// Add, remove, and clear manually marked non-school days. Mutations complete
// before returning, so a school-day recount right after sees the new state.
// ══════════════════════════════════════════════════════════════════════════════

// ManageHolidaysHandler handles holiday set mutations.
type ManageHolidaysHandler struct {
	store calendar.HolidayStore
}

// NewManageHolidaysHandler creates the handler.
func NewManageHolidaysHandler(store calendar.HolidayStore) *ManageHolidaysHandler {
	return &ManageHolidaysHandler{store: store}
}

// Add marks an ISO date as a holiday.
func (h *ManageHolidaysHandler) Add(ctx context.Context, date string) error {
	d, err := timeutil.ParseDate(date)
	if err != nil {
		return shared.WrapError("calendar", "AddHoliday", shared.ErrInvalidFormat, "bad date", err)
	}
	return h.store.Add(ctx, d)
}

// Remove unmarks an ISO date.
func (h *ManageHolidaysHandler) Remove(ctx context.Context, date string) error {
	d, err := timeutil.ParseDate(date)
	if err != nil {
		return shared.WrapError("calendar", "RemoveHoliday", shared.ErrInvalidFormat, "bad date", err)
	}
	return h.store.Remove(ctx, d)
}

// Clear removes every marked holiday.
func (h *ManageHolidaysHandler) Clear(ctx context.Context) error {
	return h.store.Clear(ctx)
}

// List returns every marked holiday as an ISO date string, sorted ascending.
func (h *ManageHolidaysHandler) List(ctx context.Context) ([]string, error) {
	days, err := h.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, timeutil.FormatDateStr(d))
	}
	sort.Strings(out)
	return out, nil
}
