// Package calendar holds the event model, the event store and the Calendar
// that creates, queries, edits and re-zones events.
//
// Event times are floating wall-clock readings: their time.Location is always
// UTC and carries no zone meaning. The owning Calendar's zone turns them into
// instants (see Instant and WallClock).
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Location says where an event takes place.
type Location string

const (
	LocationNone     Location = ""
	LocationPhysical Location = "physical"
	LocationOnline   Location = "online"
)

// ParseLocation accepts physical or online, case-insensitively. An empty
// string clears the location.
func ParseLocation(v string) (Location, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "":
		return LocationNone, nil
	case "physical":
		return LocationPhysical, nil
	case "online":
		return LocationOnline, nil
	default:
		return LocationNone, fmt.Errorf("%w: location must be physical or online, got %q", ErrValidation, v)
	}
}

// Status is the visibility of an event.
type Status string

const (
	StatusPublic  Status = "public"
	StatusPrivate Status = "private"
)

// ParseStatus accepts public or private, case-insensitively.
func ParseStatus(v string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "public":
		return StatusPublic, nil
	case "private":
		return StatusPrivate, nil
	default:
		return "", fmt.Errorf("%w: status must be public or private, got %q", ErrValidation, v)
	}
}

// All-day events are materialized as this local span.
const (
	AllDayStartHour = 8
	AllDayEndHour   = 17
)

// Event is an immutable calendar entry. Use the With methods to derive a
// modified copy.
type Event struct {
	Subject     string
	Start       time.Time
	End         time.Time
	Description string
	Location    Location
	Status      Status
	SeriesID    string
	AllDay      bool
}

// Key is the storage identity of an event.
type Key struct {
	Subject string
	Start   int64
	End     int64
}

func keyOf(subject string, start, end time.Time) Key {
	return Key{Subject: subject, Start: start.Unix(), End: end.Unix()}
}

// Key returns the (subject, start, end) identity.
func (e Event) Key() Key { return keyOf(e.Subject, e.Start, e.End) }

// InSeries reports whether the event carries a series id.
func (e Event) InSeries() bool { return e.SeriesID != "" }

func (e Event) WithSubject(s string) Event          { e.Subject = s; return e }
func (e Event) WithStart(t time.Time) Event         { e.Start = t; return e }
func (e Event) WithEnd(t time.Time) Event           { e.End = t; return e }
func (e Event) WithSpan(start, end time.Time) Event { e.Start, e.End = start, end; return e }
func (e Event) WithDescription(s string) Event      { e.Description = s; return e }
func (e Event) WithLocation(l Location) Event       { e.Location = l; return e }
func (e Event) WithStatus(s Status) Event           { e.Status = s; return e }
func (e Event) WithSeriesID(id string) Event        { e.SeriesID = id; return e }

// Validate enforces the invariants every stored event satisfies.
func (e Event) Validate() error {
	if strings.TrimSpace(e.Subject) == "" {
		return fmt.Errorf("%w: subject is required", ErrValidation)
	}
	if e.End.Before(e.Start) {
		return fmt.Errorf("%w: end %s is before start %s", ErrValidation,
			e.End.Format(dateTimeLayout), e.Start.Format(dateTimeLayout))
	}
	return nil
}

func (e Event) String() string {
	return fmt.Sprintf("%s [%s, %s]", e.Subject, e.Start.Format(dateTimeLayout), e.End.Format(dateTimeLayout))
}

// Option sets an optional field on a newly created event.
type Option func(*Event)

func WithDescription(s string) Option { return func(e *Event) { e.Description = s } }
func WithLocation(l Location) Option  { return func(e *Event) { e.Location = l } }
func WithStatus(s Status) Option      { return func(e *Event) { e.Status = s } }

func newEvent(subject string, start, end time.Time, opts []Option) Event {
	e := Event{Subject: subject, Start: floating(start), End: floating(end), Status: StatusPublic}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// floating strips any zone from t, keeping its wall-clock reading.
func floating(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// Instant interprets a floating wall-clock value in loc.
func Instant(local time.Time, loc *time.Location) time.Time {
	y, m, d := local.Date()
	return time.Date(y, m, d, local.Hour(), local.Minute(), local.Second(), 0, loc)
}

// WallClock reads instant as a floating wall-clock value in loc.
func WallClock(instant time.Time, loc *time.Location) time.Time {
	return floating(instant.In(loc))
}
