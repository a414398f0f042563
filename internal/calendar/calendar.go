package calendar

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agis/tzcal/internal/recurrence"
	"github.com/agis/tzcal/internal/timeparse"
)

const (
	dateLayout     = timeparse.DateLayout
	dateTimeLayout = timeparse.DateTimeLayout
)

// Calendar is a named set of events interpreted in one time zone.
type Calendar struct {
	name     string
	loc      *time.Location
	store    *Store
	seriesID func() string
}

// New returns an empty calendar in loc.
func New(name string, loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{
		name:     name,
		loc:      loc,
		store:    NewStore(),
		seriesID: func() string { return uuid.NewString() },
	}
}

func (c *Calendar) Name() string             { return c.name }
func (c *Calendar) Location() *time.Location { return c.loc }
func (c *Calendar) DateLayout() string       { return dateLayout }
func (c *Calendar) DateTimeLayout() string   { return dateTimeLayout }

// Rename changes the calendar's name. Uniqueness is the Registry's concern.
func (c *Calendar) Rename(name string) { c.name = name }

// SetSeriesIDGenerator replaces the uuid-based series id source.
func (c *Calendar) SetSeriesIDGenerator(fn func() string) { c.seriesID = fn }

// ParseDate parses a YYYY-MM-DD value. Failures wrap ErrInvalidDateFormat.
func (c *Calendar) ParseDate(v string) (time.Time, error) {
	t, err := timeparse.ParseDate(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDateFormat, err)
	}
	return t, nil
}

// ParseDateTime parses a YYYY-MM-DDTHH:MM value. Failures wrap
// ErrInvalidDateFormat.
func (c *Calendar) ParseDateTime(v string) (time.Time, error) {
	t, err := timeparse.ParseDateTime(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDateFormat, err)
	}
	return t, nil
}

// CreateSingleEvent adds one event without a series id.
func (c *Calendar) CreateSingleEvent(subject string, start, end time.Time, opts ...Option) (Event, error) {
	e := newEvent(subject, start, end, opts)
	if err := e.Validate(); err != nil {
		return Event{}, err
	}
	if err := c.store.Insert(e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// CreateAllDayEvent adds a 08:00-17:00 event on date flagged as all-day.
func (c *Calendar) CreateAllDayEvent(subject string, date time.Time, opts ...Option) (Event, error) {
	start, end := allDaySpan(date)
	e := newEvent(subject, start, end, opts)
	e.AllDay = true
	if err := e.Validate(); err != nil {
		return Event{}, err
	}
	if err := c.store.Insert(e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// CreateRecurringEvent adds count occurrences of [start, end) on the given
// weekdays, starting from start's date.
func (c *Calendar) CreateRecurringEvent(subject string, start, end time.Time, weekdays []time.Weekday, count int, opts ...Option) ([]Event, error) {
	return c.createSeries(subject, start, end, false, recurrence.Rule{Weekdays: weekdays, Count: count}, opts)
}

// CreateRecurringEventUntil adds occurrences of [start, end) on the given
// weekdays on every date before until.
func (c *Calendar) CreateRecurringEventUntil(subject string, start, end time.Time, weekdays []time.Weekday, until time.Time, opts ...Option) ([]Event, error) {
	return c.createSeries(subject, start, end, false, recurrence.Rule{Weekdays: weekdays, Until: floating(until)}, opts)
}

// CreateRecurringAllDayEvent adds count all-day occurrences from date.
func (c *Calendar) CreateRecurringAllDayEvent(subject string, date time.Time, weekdays []time.Weekday, count int, opts ...Option) ([]Event, error) {
	start, end := allDaySpan(date)
	return c.createSeries(subject, start, end, true, recurrence.Rule{Weekdays: weekdays, Count: count}, opts)
}

// CreateRecurringAllDayEventUntil adds all-day occurrences on every matching
// date before until.
func (c *Calendar) CreateRecurringAllDayEventUntil(subject string, date time.Time, weekdays []time.Weekday, until time.Time, opts ...Option) ([]Event, error) {
	start, end := allDaySpan(date)
	return c.createSeries(subject, start, end, true, recurrence.Rule{Weekdays: weekdays, Until: floating(until)}, opts)
}

func (c *Calendar) createSeries(subject string, start, end time.Time, allDay bool, rule recurrence.Rule, opts []Option) ([]Event, error) {
	start, end = floating(start), floating(end)
	if !timeparse.SameDate(start, end) {
		return nil, ErrMultiDaySeries
	}
	proto := newEvent(subject, start, end, opts)
	proto.AllDay = allDay
	if err := proto.Validate(); err != nil {
		return nil, err
	}
	dates, err := recurrence.Generate(rule, start)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: recurrence produces no occurrences", ErrValidation)
	}

	proto.SeriesID = c.seriesID()
	out := make([]Event, 0, len(dates))
	for _, d := range dates {
		out = append(out, proto.WithSpan(onDate(d, start), onDate(d, end)))
	}
	if err := c.store.Commit(nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Import inserts already-built events, keeping their series ids. The batch is
// atomic: a duplicate anywhere leaves the calendar unchanged.
func (c *Calendar) Import(events []Event) error {
	for _, e := range events {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	return c.store.Commit(nil, events)
}

func allDaySpan(date time.Time) (time.Time, time.Time) {
	y, m, d := date.Date()
	return time.Date(y, m, d, AllDayStartHour, 0, 0, 0, time.UTC),
		time.Date(y, m, d, AllDayEndHour, 0, 0, 0, time.UTC)
}

// onDate places clock's time of day on date.
func onDate(date, clock time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC)
}
