package query

import (
	"context"
	"strings"

	"github.com/alga4school/katysym/internal/domain/attendance"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER QUERIES
// Pass-throughs to the provider's classes and students modes, with the class
// and name filtering the attendance-marking page applies before display.
// ══════════════════════════════════════════════════════════════════════════════

// RosterProvider is the slice of the provider client the roster queries need.
type RosterProvider interface {
	FetchClasses(ctx context.Context) ([]string, error)
	FetchStudents(ctx context.Context) ([]attendance.Student, error)
}

// GetRosterQuery selects a class and an optional name search.
type GetRosterQuery struct {
	// ClassLabel narrows the roster to one class; required for the marking
	// page, where an unselected class shows nobody.
	ClassLabel string

	// Search is a case-insensitive substring filter on full names.
	Search string
}

// GetRosterHandler serves class lists and filtered student rosters.
type GetRosterHandler struct {
	provider RosterProvider
}

// NewGetRosterHandler creates the handler.
func NewGetRosterHandler(provider RosterProvider) *GetRosterHandler {
	return &GetRosterHandler{provider: provider}
}

// Classes returns the class labels known to the provider.
func (h *GetRosterHandler) Classes(ctx context.Context) ([]string, error) {
	return h.provider.FetchClasses(ctx)
}

// Students returns the roster filtered to the selected class and search
// string. An empty class label yields an empty roster.
func (h *GetRosterHandler) Students(ctx context.Context, q GetRosterQuery) ([]attendance.Student, error) {
	if q.ClassLabel == "" {
		return []attendance.Student{}, nil
	}

	ref, err := attendance.ParseClass(q.ClassLabel)
	if err != nil {
		return nil, err
	}

	all, err := h.provider.FetchStudents(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(q.Search))
	students := make([]attendance.Student, 0, len(all))
	for _, s := range all {
		if !ref.Matches(s) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(s.FullName), needle) {
			continue
		}
		students = append(students, s)
	}
	return students, nil
}
