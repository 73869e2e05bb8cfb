package calendar

import (
	"context"
	"time"
)

// HolidayStore persists the manually marked holiday set across sessions.
// Mutations are synchronous: a List after Add or Remove observes the change.
type HolidayStore interface {
	// List returns all marked holidays sorted ascending.
	List(ctx context.Context) ([]time.Time, error)

	// Add marks a date as a non-school day. Adding an already marked date
	// is a no-op.
	Add(ctx context.Context, d time.Time) error

	// Remove unmarks a date. Removing an unmarked date is a no-op.
	Remove(ctx context.Context, d time.Time) error

	// Clear removes every marked holiday.
	Clear(ctx context.Context) error
}
