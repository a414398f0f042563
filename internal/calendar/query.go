package calendar

import (
	"fmt"
	"time"
)

// GetEvent returns the event with exactly this identity.
func (c *Calendar) GetEvent(subject string, start, end time.Time) (Event, error) {
	e, ok := c.store.Get(keyOf(subject, floating(start), floating(end)))
	if !ok {
		return Event{}, fmt.Errorf("%w: event %q starting %s ending %s", ErrNotFound,
			subject, start.Format(dateTimeLayout), end.Format(dateTimeLayout))
	}
	return e, nil
}

// Events returns every event ordered by start.
func (c *Calendar) Events() []Event { return c.store.All() }

// EventsOnDate returns events overlapping [date 00:00:00, date 23:59:59],
// both ends inclusive.
func (c *Calendar) EventsOnDate(date time.Time) []Event {
	dayStart := onDate(date, time.Time{})
	dayEnd := dayStart.Add(24*time.Hour - time.Second)
	out := make([]Event, 0)
	for _, e := range c.store.All() {
		if !e.Start.After(dayEnd) && !e.End.Before(dayStart) {
			out = append(out, e)
		}
	}
	return out
}

// EventsInRange returns events with start < end and event end > start,
// ordered by start. Events touching a boundary are excluded.
func (c *Calendar) EventsInRange(start, end time.Time) []Event {
	start, end = floating(start), floating(end)
	out := make([]Event, 0)
	for _, e := range c.store.All() {
		if e.Start.Before(end) && e.End.After(start) {
			out = append(out, e)
		}
	}
	return out
}

// IsBusy reports whether any event covers t, boundaries included.
func (c *Calendar) IsBusy(t time.Time) bool {
	t = floating(t)
	for _, e := range c.store.All() {
		if !t.Before(e.Start) && !t.After(e.End) {
			return true
		}
	}
	return false
}

// EventsBySeriesID returns the members of a series, empty when none.
func (c *Calendar) EventsBySeriesID(id string) []Event {
	if id == "" {
		return []Event{}
	}
	return c.store.Series(id)
}

// FindEventsBySubjectAndStart returns every event with this subject and start.
func (c *Calendar) FindEventsBySubjectAndStart(subject string, start time.Time) []Event {
	start = floating(start)
	out := make([]Event, 0, 1)
	for _, e := range c.store.All() {
		if e.Subject == subject && e.Start.Equal(start) {
			out = append(out, e)
		}
	}
	return out
}
