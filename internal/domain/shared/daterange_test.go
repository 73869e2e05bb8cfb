package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alga4school/katysym/pkg/timeutil"
)

func TestNewDateRange(t *testing.T) {
	rng, err := NewDateRange(timeutil.Date(2025, 9, 1), timeutil.Date(2025, 9, 30))
	require.NoError(t, err)
	assert.Equal(t, "2025-09-01", rng.FromStr())
	assert.Equal(t, "2025-09-30", rng.ToStr())

	// Single-day range is valid.
	_, err = NewDateRange(timeutil.Date(2025, 9, 1), timeutil.Date(2025, 9, 1))
	assert.NoError(t, err)

	// Reversed bounds are rejected.
	_, err = NewDateRange(timeutil.Date(2025, 9, 2), timeutil.Date(2025, 9, 1))
	assert.ErrorIs(t, err, ErrBadDateRange)
}

func TestDateRangeContains(t *testing.T) {
	rng, err := ParseDateRange("2025-09-01", "2025-09-30")
	require.NoError(t, err)

	assert.True(t, rng.Contains(timeutil.Date(2025, 9, 1)))
	assert.True(t, rng.Contains(timeutil.Date(2025, 9, 30)))
	assert.True(t, rng.Contains(timeutil.Date(2025, 9, 15)))
	assert.False(t, rng.Contains(timeutil.Date(2025, 8, 31)))
	assert.False(t, rng.Contains(timeutil.Date(2025, 10, 1)))
}

func TestDateRangeDays(t *testing.T) {
	rng := SingleDay(timeutil.Date(2025, 9, 1))
	assert.Equal(t, 1, rng.Days())

	rng, err := ParseDateRange("2025-09-01", "2025-09-30")
	require.NoError(t, err)
	assert.Equal(t, 30, rng.Days())
}

func TestEachDay(t *testing.T) {
	rng, err := ParseDateRange("2025-09-01", "2025-09-05")
	require.NoError(t, err)

	var visited []string
	rng.EachDay(func(d time.Time) bool {
		visited = append(visited, timeutil.FormatDateStr(d))
		return true
	})
	assert.Equal(t, []string{"2025-09-01", "2025-09-02", "2025-09-03", "2025-09-04", "2025-09-05"}, visited)

	// Early stop.
	count := 0
	rng.EachDay(func(d time.Time) bool {
		count++
		return count < 2
	})
	assert.Equal(t, 2, count)
}

func TestParseDateRange(t *testing.T) {
	_, err := ParseDateRange("not-a-date", "2025-09-30")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ParseDateRange("2025-09-01", "30.09.2025")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
