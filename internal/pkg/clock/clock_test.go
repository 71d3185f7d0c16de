package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDate_BoundaryDrift(t *testing.T) {
	// 17:30 UTC is already the next day in UTC+8.
	instant := time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-11", LocalDate(instant))

	// 15:59 UTC is still 23:59 local on the same day.
	instant = time.Date(2025, 3, 10, 15, 59, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-10", LocalDate(instant))
}

func TestDayBounds(t *testing.T) {
	from, to, err := DayBounds("2025-03-11")
	require.NoError(t, err)

	// Local midnight is 16:00 UTC the prior day.
	assert.Equal(t, time.Date(2025, 3, 10, 16, 0, 0, 0, time.UTC), from)
	assert.Equal(t, 24*time.Hour, to.Sub(from))

	_, _, err = DayBounds("11-03-2025")
	assert.Error(t, err)
}

func TestInclusiveDays(t *testing.T) {
	d := func(s string) time.Time {
		day, err := ParseDate(s)
		require.NoError(t, err)
		return day
	}

	assert.Equal(t, 1, InclusiveDays(d("2025-01-01"), d("2025-01-01")))
	assert.Equal(t, 5, InclusiveDays(d("2025-01-01"), d("2025-01-05")))
	assert.Equal(t, 3, InclusiveDays(d("2025-02-27"), d("2025-03-01"))) // non-leap year
}

func TestSpanMinutes(t *testing.T) {
	start, err := MinutesOfDay("09:00")
	require.NoError(t, err)
	end, err := MinutesOfDay("17:00")
	require.NoError(t, err)
	assert.Equal(t, 480, SpanMinutes(start, end))

	// Overnight shift wraps across midnight.
	start, _ = MinutesOfDay("22:00")
	end, _ = MinutesOfDay("02:00")
	assert.Equal(t, 240, SpanMinutes(start, end))

	assert.Equal(t, 0, SpanMinutes(600, 600))
}

func TestMinutesOfDay_Invalid(t *testing.T) {
	_, err := MinutesOfDay("25:99")
	assert.Error(t, err)
}

func TestFixedClock(t *testing.T) {
	instant := time.Date(2025, 6, 1, 12, 0, 0, 0, OrgZone)
	c := Fixed{Instant: instant}
	assert.True(t, c.Now().Equal(instant))
	assert.Equal(t, time.UTC, c.Now().Location())
}
