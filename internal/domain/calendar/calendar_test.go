package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alga4school/katysym/internal/domain/shared"
	"github.com/alga4school/katysym/pkg/timeutil"
)

func TestOfficialBreakContains(t *testing.T) {
	b := OfficialBreak{From: timeutil.Date(2025, 10, 27), To: timeutil.Date(2025, 11, 2)}

	assert.True(t, b.Contains(timeutil.Date(2025, 10, 27)), "first day inclusive")
	assert.True(t, b.Contains(timeutil.Date(2025, 11, 2)), "last day inclusive")
	assert.True(t, b.Contains(timeutil.Date(2025, 10, 30)))
	assert.False(t, b.Contains(timeutil.Date(2025, 10, 26)))
	assert.False(t, b.Contains(timeutil.Date(2025, 11, 3)))
}

func TestBreaks2025(t *testing.T) {
	breaks := Breaks2025()
	require.Len(t, breaks, 3)

	assert.Equal(t, timeutil.Date(2025, 10, 27), breaks[0].From)
	assert.Equal(t, timeutil.Date(2025, 11, 2), breaks[0].To)
	assert.Equal(t, timeutil.Date(2025, 12, 29), breaks[1].From)
	assert.Equal(t, timeutil.Date(2026, 1, 7), breaks[1].To)
	assert.Equal(t, timeutil.Date(2026, 3, 19), breaks[2].From)
	assert.Equal(t, timeutil.Date(2026, 3, 29), breaks[2].To)
}

func TestIsSchoolDay(t *testing.T) {
	holidays := NewHolidaySet("2025-09-10")
	r := NewResolver(Breaks2025(), holidays)

	// Ordinary weekday.
	assert.True(t, r.IsSchoolDay(timeutil.Date(2025, 9, 8)))

	// Weekend.
	assert.False(t, r.IsSchoolDay(timeutil.Date(2025, 9, 6)), "Saturday")
	assert.False(t, r.IsSchoolDay(timeutil.Date(2025, 9, 7)), "Sunday")

	// Inside the autumn break, even on a weekday.
	assert.False(t, r.IsSchoolDay(timeutil.Date(2025, 10, 29)))

	// Manual holiday on a weekday.
	assert.False(t, r.IsSchoolDay(timeutil.Date(2025, 9, 10)))
}

func TestIsSchoolDayNilHolidays(t *testing.T) {
	r := NewResolver(Breaks2025(), nil)
	assert.True(t, r.IsSchoolDay(timeutil.Date(2025, 9, 8)))
}

func TestHolidaySetMutation(t *testing.T) {
	set := HolidaySet{}
	d := timeutil.Date(2025, 9, 10)

	assert.False(t, set.Has(d))
	set.Add(d)
	assert.True(t, set.Has(d))
	set.Remove(d)
	assert.False(t, set.Has(d))
}

func TestCountSchoolDays(t *testing.T) {
	r := NewResolver(Breaks2025(), nil)

	// September 2025: 30 days, 8 weekend days, no breaks.
	rng, err := shared.ParseDateRange("2025-09-01", "2025-09-30")
	require.NoError(t, err)
	assert.Equal(t, 22, r.CountSchoolDays(rng))

	// One Saturday.
	rng, err = shared.ParseDateRange("2025-09-06", "2025-09-06")
	require.NoError(t, err)
	assert.Equal(t, 0, r.CountSchoolDays(rng))
}

func TestCountSchoolDaysAcrossBreak(t *testing.T) {
	holidays := NewHolidaySet("2025-10-24")
	r := NewResolver(Breaks2025(), holidays)

	rng, err := shared.ParseDateRange("2025-10-20", "2025-11-07")
	require.NoError(t, err)

	// Brute force against the per-day predicate.
	want := 0
	rng.EachDay(func(d time.Time) bool {
		if r.IsSchoolDay(d) {
			want++
		}
		return true
	})
	assert.Equal(t, want, r.CountSchoolDays(rng))

	// 2025-10-20..24 is a school week minus the Friday holiday (4 days),
	// Oct 27..Nov 2 is the break, Nov 3..7 is a school week (5 days).
	assert.Equal(t, 9, r.CountSchoolDays(rng))
}
