package registry_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agis/tzcal/internal/calendar"
	"github.com/agis/tzcal/internal/registry"
)

// ---- helpers ---------------------------------------------------------------

func at(t *testing.T, v string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02T15:04", v)
	require.NoError(t, err)
	return ts
}

func date(t *testing.T, v string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02", v)
	require.NoError(t, err)
	return ts
}

func format(ts time.Time) string { return ts.Format("2006-01-02T15:04") }

// newRegistry returns a registry with A (New York, active) and B (London).
func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()
	_, err := r.CreateCalendar("A", "America/New_York")
	require.NoError(t, err)
	_, err = r.CreateCalendar("B", "Europe/London")
	require.NoError(t, err)
	require.NoError(t, r.SetCurrentCalendar("A"))
	return r
}

// ---- calendars -------------------------------------------------------------

func TestCreateCalendar(t *testing.T) {
	r := registry.New()
	c, err := r.CreateCalendar("Work", "Asia/Seoul")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Seoul", c.Location().String())

	_, err = r.CreateCalendar("Work", "UTC")
	assert.ErrorIs(t, err, calendar.ErrDuplicate)

	_, err = r.CreateCalendar("Home", "Mars/Olympus_Mons")
	assert.ErrorIs(t, err, calendar.ErrValidation)

	_, err = r.CreateCalendar(" ", "UTC")
	assert.ErrorIs(t, err, calendar.ErrValidation)

	assert.Equal(t, []string{"Work"}, r.Names())
}

func TestCurrentActiveCalendar(t *testing.T) {
	r := registry.New()
	_, err := r.CurrentActiveCalendar()
	assert.ErrorIs(t, err, calendar.ErrNoActiveCalendar)

	assert.ErrorIs(t, r.SetCurrentCalendar("Nope"), calendar.ErrNotFound)

	_, err = r.CreateCalendar("Work", "UTC")
	require.NoError(t, err)
	require.NoError(t, r.SetCurrentCalendar("Work"))
	c, err := r.CurrentActiveCalendar()
	require.NoError(t, err)
	assert.Equal(t, "Work", c.Name())
}

func TestEditCalendar_Rename(t *testing.T) {
	r := newRegistry(t)
	require.NoError(t, r.EditCalendar("A", registry.CalendarName, "Office"))

	c, err := r.CurrentActiveCalendar()
	require.NoError(t, err)
	assert.Equal(t, "Office", c.Name())
	_, err = r.TargetCalendar("A")
	assert.ErrorIs(t, err, calendar.ErrNotFound)

	assert.ErrorIs(t, r.EditCalendar("Office", registry.CalendarName, "B"), calendar.ErrDuplicate)
	assert.ErrorIs(t, r.EditCalendar("Nope", registry.CalendarName, "C"), calendar.ErrNotFound)
	assert.Equal(t, []string{"B", "Office"}, r.Names())
}

func TestEditCalendar_Timezone(t *testing.T) {
	r := newRegistry(t)
	a, err := r.TargetCalendar("A")
	require.NoError(t, err)
	_, err = a.CreateSingleEvent("Meeting", at(t, "2023-10-01T10:00"), at(t, "2023-10-01T11:30"))
	require.NoError(t, err)

	require.NoError(t, r.EditCalendar("A", registry.CalendarTimezone, "Europe/London"))
	got := a.Events()[0]
	assert.Equal(t, "2023-10-01T15:00", format(got.Start))

	assert.ErrorIs(t, r.EditCalendar("A", registry.CalendarTimezone, "Nowhere/Land"), calendar.ErrValidation)
	assert.Equal(t, "Europe/London", a.Location().String())
}

func TestParseCalendarProperty(t *testing.T) {
	p, err := registry.ParseCalendarProperty("TimeZone")
	require.NoError(t, err)
	assert.Equal(t, registry.CalendarTimezone, p)
	_, err = registry.ParseCalendarProperty("color")
	assert.ErrorIs(t, err, calendar.ErrUnsupportedProperty)
}
