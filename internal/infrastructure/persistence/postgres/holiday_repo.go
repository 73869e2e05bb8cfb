package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/alga4school/katysym/internal/domain/calendar"
	"github.com/alga4school/katysym/pkg/timeutil"
)

// HolidayRepository implements calendar.HolidayStore for PostgreSQL.
type HolidayRepository struct {
	conn *Connection
}

// compile-time interface check
var _ calendar.HolidayStore = (*HolidayRepository)(nil)

// NewHolidayRepository creates a new HolidayRepository.
func NewHolidayRepository(conn *Connection) *HolidayRepository {
	return &HolidayRepository{conn: conn}
}

// List returns all marked holidays sorted ascending.
func (r *HolidayRepository) List(ctx context.Context) ([]time.Time, error) {
	rows, err := r.conn.Query(ctx, `SELECT day FROM holidays ORDER BY day ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		days = append(days, timeutil.StartOfDay(d))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read holidays: %w", err)
	}
	return days, nil
}

// Add marks a date as a non-school day. Adding a marked date is a no-op.
func (r *HolidayRepository) Add(ctx context.Context, d time.Time) error {
	_, err := r.conn.Exec(ctx,
		`INSERT INTO holidays (day) VALUES ($1) ON CONFLICT (day) DO NOTHING`,
		timeutil.StartOfDay(d))
	if err != nil {
		return fmt.Errorf("failed to add holiday: %w", err)
	}
	return nil
}

// Remove unmarks a date. Removing an unmarked date is a no-op.
func (r *HolidayRepository) Remove(ctx context.Context, d time.Time) error {
	_, err := r.conn.Exec(ctx,
		`DELETE FROM holidays WHERE day = $1`,
		timeutil.StartOfDay(d))
	if err != nil {
		return fmt.Errorf("failed to remove holiday: %w", err)
	}
	return nil
}

// Clear removes every marked holiday.
func (r *HolidayRepository) Clear(ctx context.Context) error {
	if _, err := r.conn.Exec(ctx, `DELETE FROM holidays`); err != nil {
		return fmt.Errorf("failed to clear holidays: %w", err)
	}
	return nil
}
