package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alga4school/katysym/internal/domain/shared"
	"github.com/alga4school/katysym/pkg/timeutil"
)

func TestResolveDay(t *testing.T) {
	clock := shared.FixedClock{T: timeutil.Date(2025, 9, 15)}

	rng, ok := Resolve(Selection{Type: TypeDay, Date: timeutil.Date(2025, 9, 10)}, clock)
	require.True(t, ok)
	assert.Equal(t, "2025-09-10", rng.FromStr())
	assert.Equal(t, "2025-09-10", rng.ToStr())

	// No date supplied: recoverable, not an error.
	_, ok = Resolve(Selection{Type: TypeDay}, clock)
	assert.False(t, ok)
}

func TestResolveWeek(t *testing.T) {
	// Monday 2025-09-15. Walking back: Mon 15, Fri 12, Thu 11, Wed 10, Tue 9.
	clock := shared.FixedClock{T: timeutil.Date(2025, 9, 15)}

	rng, ok := Resolve(Selection{Type: TypeWeek}, clock)
	require.True(t, ok)
	assert.Equal(t, "2025-09-09", rng.FromStr())
	assert.Equal(t, "2025-09-15", rng.ToStr())
}

func TestResolveWeekFromWeekend(t *testing.T) {
	// Sunday 2025-09-14 is skipped; range ends at Friday 2025-09-12.
	clock := shared.FixedClock{T: timeutil.Date(2025, 9, 14)}

	rng, ok := Resolve(Selection{Type: TypeWeek}, clock)
	require.True(t, ok)
	assert.Equal(t, "2025-09-08", rng.FromStr())
	assert.Equal(t, "2025-09-12", rng.ToStr())
}

func TestResolveWeekIgnoresBreaks(t *testing.T) {
	// 2025-10-29 is inside the autumn break but the week rule only skips
	// weekends, so break dates still appear in the range.
	clock := shared.FixedClock{T: timeutil.Date(2025, 10, 29)}

	rng, ok := Resolve(Selection{Type: TypeWeek}, clock)
	require.True(t, ok)
	assert.Equal(t, "2025-10-23", rng.FromStr())
	assert.Equal(t, "2025-10-29", rng.ToStr())
}

func TestResolveMonth(t *testing.T) {
	clock := shared.FixedClock{T: timeutil.Date(2025, 9, 15)}

	rng, ok := Resolve(Selection{Type: TypeMonth, Year: 2026, Month: 2}, clock)
	require.True(t, ok)
	assert.Equal(t, "2026-02-01", rng.FromStr())
	assert.Equal(t, "2026-02-28", rng.ToStr())

	_, ok = Resolve(Selection{Type: TypeMonth, Year: 2026}, clock)
	assert.False(t, ok)

	_, ok = Resolve(Selection{Type: TypeMonth, Month: 2}, clock)
	assert.False(t, ok)
}

func TestResolveYear(t *testing.T) {
	clock := shared.FixedClock{T: timeutil.Date(2025, 9, 15)}

	rng, ok := Resolve(Selection{Type: TypeYear, Year: 2024}, clock)
	require.True(t, ok)
	assert.Equal(t, "2024-01-01", rng.FromStr())
	assert.Equal(t, "2024-12-31", rng.ToStr())

	// Year defaults to the clock's current year.
	rng, ok = Resolve(Selection{Type: TypeYear}, clock)
	require.True(t, ok)
	assert.Equal(t, "2025-01-01", rng.FromStr())
	assert.Equal(t, "2025-12-31", rng.ToStr())
}

func TestResolveQuarter(t *testing.T) {
	clock := shared.FixedClock{T: timeutil.Date(2025, 9, 15)}

	cases := []struct {
		quarter  int
		from, to string
	}{
		{1, "2025-09-01", "2025-10-26"},
		{2, "2025-11-03", "2025-12-28"},
		{3, "2026-01-08", "2026-03-18"},
		{4, "2026-03-30", "2026-05-25"},
	}
	for _, tc := range cases {
		rng, ok := Resolve(Selection{Type: TypeQuarter, Quarter: tc.quarter}, clock)
		require.True(t, ok, "quarter %d", tc.quarter)
		assert.Equal(t, tc.from, rng.FromStr())
		assert.Equal(t, tc.to, rng.ToStr())
	}

	_, ok := Resolve(Selection{Type: TypeQuarter, Quarter: 5}, clock)
	assert.False(t, ok)
	_, ok = Resolve(Selection{Type: TypeQuarter}, clock)
	assert.False(t, ok)
}

func TestResolveQuarterBaseYear(t *testing.T) {
	clock := shared.FixedClock{T: timeutil.Date(2025, 9, 15)}

	rng, ok := Resolve(Selection{Type: TypeQuarter, Quarter: 3, QuarterBaseYear: 2026}, clock)
	require.True(t, ok)
	assert.Equal(t, "2027-01-08", rng.FromStr())
	assert.Equal(t, "2027-03-18", rng.ToStr())
}

func TestResolveAll(t *testing.T) {
	clock := shared.FixedClock{T: timeutil.Date(2025, 9, 15)}

	rng, ok := Resolve(Selection{Type: TypeAll}, clock)
	require.True(t, ok)
	assert.Equal(t, "2000-01-01", rng.FromStr())
	assert.Equal(t, "2100-01-01", rng.ToStr())
}

func TestResolveCustom(t *testing.T) {
	clock := shared.FixedClock{T: timeutil.Date(2025, 9, 15)}

	rng, ok := Resolve(Selection{
		Type:  TypeCustom,
		Start: timeutil.Date(2025, 9, 1),
		End:   timeutil.Date(2025, 9, 30),
	}, clock)
	require.True(t, ok)
	assert.Equal(t, "2025-09-01", rng.FromStr())
	assert.Equal(t, "2025-09-30", rng.ToStr())

	_, ok = Resolve(Selection{Type: TypeCustom, Start: timeutil.Date(2025, 9, 1)}, clock)
	assert.False(t, ok)
}

func TestResolveUnknownType(t *testing.T) {
	clock := shared.FixedClock{T: timeutil.Date(2025, 9, 15)}

	_, ok := Resolve(Selection{Type: Type("fortnight")}, clock)
	assert.False(t, ok)
}

func TestWeekRuleAlwaysFindsFiveDays(t *testing.T) {
	// Any fourteen consecutive calendar days contain at least ten weekdays,
	// so the walk always collects five regardless of the starting weekday.
	for offset := 0; offset < 14; offset++ {
		day := timeutil.Date(2025, 9, 1).AddDate(0, 0, offset)
		rng, ok := Resolve(Selection{Type: TypeWeek}, shared.FixedClock{T: day})
		require.True(t, ok)

		weekdays := 0
		rng.EachDay(func(d time.Time) bool {
			if !timeutil.IsWeekend(d) {
				weekdays++
			}
			return true
		})
		assert.Equal(t, 5, weekdays, "starting from %s", timeutil.FormatDateStr(day))
	}
}
