// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"

	"github.com/alga4school/katysym/internal/domain/attendance"
	"github.com/alga4school/katysym/internal/domain/shared"
	"github.com/alga4school/katysym/internal/infrastructure/external/sheets"
	"github.com/alga4school/katysym/pkg/logger"
	"github.com/alga4school/katysym/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SAVE ATTENDANCE COMMAND
// Бір сынып, бір күн: белгілерді жинап, провайдерге жібереді.
// Shapes and submits one class's marks for one date. The guard prevents a
// double submit from the same client; the provider overwrites on its side.
// ══════════════════════════════════════════════════════════════════════════════

// SaveGuard is the externally persisted idempotency contract.
type SaveGuard interface {
	IsSaved(ctx context.Context, date, grade, letter string) (bool, error)
	MarkSaved(ctx context.Context, date, grade, letter string) error
}

// AttendanceSaver is the slice of the provider client the command needs.
type AttendanceSaver interface {
	SaveAttendance(ctx context.Context, req sheets.SaveRequest) (sheets.SaveResult, error)
}

// RosterFetcher supplies the full roster for class filtering.
type RosterFetcher interface {
	FetchStudents(ctx context.Context) ([]attendance.Student, error)
}

// SaveAttendanceCommand carries one marking-page submit.
type SaveAttendanceCommand struct {
	// Date is the attendance date (ISO).
	Date string

	// ClassLabel is the selected class, e.g. "5А".
	ClassLabel string

	// Marks maps student id → picked status. Students missing from the map
	// default to katysty.
	Marks map[string]attendance.StatusCode
}

// Validate validates the command.
func (c SaveAttendanceCommand) Validate() error {
	if c.Date == "" {
		return shared.NewDomainError("attendance", "Save", shared.ErrEmptyValue, "date is required")
	}
	if _, err := timeutil.ParseDate(c.Date); err != nil {
		return shared.WrapError("attendance", "Save", shared.ErrInvalidFormat, "bad date", err)
	}
	if c.ClassLabel == "" {
		return shared.NewDomainError("attendance", "Save", shared.ErrEmptyValue, "class is required")
	}
	for id, code := range c.Marks {
		if !code.IsValid() {
			return shared.WrapError("attendance", "Save", shared.ErrInvalidInput,
				"unknown status for student "+id, nil)
		}
	}
	return nil
}

// SaveAttendanceResult acknowledges the save.
type SaveAttendanceResult struct {
	Saved    int  `json:"saved"`
	Replaced bool `json:"replaced"`
}

// SaveAttendanceHandler handles attendance saves.
type SaveAttendanceHandler struct {
	saver  AttendanceSaver
	roster RosterFetcher
	guard  SaveGuard
	logger *logger.Logger
}

// NewSaveAttendanceHandler creates the handler.
func NewSaveAttendanceHandler(saver AttendanceSaver, roster RosterFetcher, guard SaveGuard, log *logger.Logger) *SaveAttendanceHandler {
	if log == nil {
		log = logger.Default()
	}
	return &SaveAttendanceHandler{
		saver:  saver,
		roster: roster,
		guard:  guard,
		logger: log.With(logger.Component("command.save_attendance")),
	}
}

// Handle runs the save flow: guard check, roster filter, request shaping,
// provider call, guard mark. A guard hit short-circuits with
// shared.ErrAlreadySaved: expected and recoverable, not a failure. An empty
// roster aborts the save entirely; no partial save occurs.
func (h *SaveAttendanceHandler) Handle(ctx context.Context, cmd SaveAttendanceCommand) (SaveAttendanceResult, error) {
	if err := cmd.Validate(); err != nil {
		return SaveAttendanceResult{}, err
	}

	ref, err := attendance.ParseClass(cmd.ClassLabel)
	if err != nil {
		return SaveAttendanceResult{}, err
	}

	saved, err := h.guard.IsSaved(ctx, cmd.Date, ref.Grade, ref.Letter)
	if err != nil {
		return SaveAttendanceResult{}, err
	}
	if saved {
		return SaveAttendanceResult{}, shared.ErrAlreadySaved
	}

	all, err := h.roster.FetchStudents(ctx)
	if err != nil {
		return SaveAttendanceResult{}, err
	}

	records := make([]sheets.SaveRecord, 0, len(all))
	for _, s := range all {
		if !ref.Matches(s) {
			continue
		}
		status := attendance.StatusPresent
		if code, ok := cmd.Marks[s.ID]; ok {
			status = code
		}
		records = append(records, sheets.SaveRecord{StudentID: s.ID, Status: status})
	}
	if len(records) == 0 {
		return SaveAttendanceResult{}, shared.ErrEmptyRoster
	}

	result, err := h.saver.SaveAttendance(ctx, sheets.SaveRequest{
		Date:        cmd.Date,
		Grade:       ref.Grade,
		ClassLetter: ref.Letter,
		Records:     records,
	})
	if err != nil {
		return SaveAttendanceResult{}, err
	}

	// Mark only after the provider confirmed; a failed mark must not undo
	// the save, so it is logged and swallowed.
	if err := h.guard.MarkSaved(ctx, cmd.Date, ref.Grade, ref.Letter); err != nil {
		if !errors.Is(err, context.Canceled) {
			h.logger.Warn("guard mark failed after successful save",
				logger.DateStr(cmd.Date),
				logger.ClassLabel(ref.Label()),
				logger.Err(err),
			)
		}
	}

	return SaveAttendanceResult{Saved: result.Saved, Replaced: result.Replaced}, nil
}
