package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agis/tzcal/internal/calendar"
)

func TestInstantAndWallClock(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	local := at(t, "2023-10-01T10:00")
	instant := calendar.Instant(local, ny)
	assert.Equal(t, time.Date(2023, 10, 1, 14, 0, 0, 0, time.UTC), instant.UTC())
	assert.Equal(t, local, calendar.WallClock(instant, ny))
}

func TestSetTimeZone_PreservesInstants(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	london := mustLoad(t, "Europe/London")
	c := calendar.New("Home", ny)
	orig, err := c.CreateSingleEvent("Meeting", at(t, "2023-10-01T10:00"), at(t, "2023-10-01T11:30"))
	require.NoError(t, err)

	require.NoError(t, c.SetTimeZone(london))
	assert.Equal(t, london, c.Location())

	got := c.Events()
	require.Len(t, got, 1)
	assert.Equal(t, "2023-10-01T15:00", got[0].Start.Format("2006-01-02T15:04"))
	assert.Equal(t, "2023-10-01T16:30", got[0].End.Format("2006-01-02T15:04"))
	assert.True(t, calendar.Instant(orig.Start, ny).Equal(calendar.Instant(got[0].Start, london)))
	assert.True(t, calendar.Instant(orig.End, ny).Equal(calendar.Instant(got[0].End, london)))
}

func TestSetTimeZone_KeepsSeries(t *testing.T) {
	c := calendar.New("Work", time.UTC)
	_, err := c.CreateRecurringEvent("Standup", at(t, "2025-06-02T09:00"), at(t, "2025-06-02T09:15"), mtr, 3)
	require.NoError(t, err)
	id := c.Events()[0].SeriesID

	require.NoError(t, c.SetTimeZone(mustLoad(t, "Europe/Berlin")))
	members := c.EventsBySeriesID(id)
	require.Len(t, members, 3)
	for _, e := range members {
		assert.Equal(t, 11, e.Start.Hour())
	}
}

func TestSetTimeZone_SeriesCrossingMidnightFails(t *testing.T) {
	c := calendar.New("Work", time.UTC)
	_, err := c.CreateSingleEvent("Call", at(t, "2025-06-01T10:00"), at(t, "2025-06-01T11:00"))
	require.NoError(t, err)
	// 14:00-16:00 UTC is 23:00-01:00 in Tokyo.
	_, err = c.CreateRecurringEvent("Late", at(t, "2025-06-02T14:00"), at(t, "2025-06-02T16:00"), mtr, 2)
	require.NoError(t, err)
	before := c.Events()

	err = c.SetTimeZone(mustLoad(t, "Asia/Tokyo"))
	assert.ErrorIs(t, err, calendar.ErrMultiDaySeries)
	assert.Equal(t, time.UTC, c.Location())
	assert.Equal(t, before, c.Events())
}

func TestSetTimeZone_SingleEventMayCrossMidnight(t *testing.T) {
	c := calendar.New("Work", time.UTC)
	_, err := c.CreateSingleEvent("Late", at(t, "2025-06-02T14:00"), at(t, "2025-06-02T16:00"))
	require.NoError(t, err)

	require.NoError(t, c.SetTimeZone(mustLoad(t, "Asia/Tokyo")))
	got := c.Events()[0]
	assert.Equal(t, "2025-06-02T23:00", got.Start.Format("2006-01-02T15:04"))
	assert.Equal(t, "2025-06-03T01:00", got.End.Format("2006-01-02T15:04"))
}
