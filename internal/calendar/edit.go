package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Property names an editable event field.
type Property string

const (
	PropertySubject     Property = "subject"
	PropertyStart       Property = "start"
	PropertyEnd         Property = "end"
	PropertyDescription Property = "description"
	PropertyLocation    Property = "location"
	PropertyStatus      Property = "status"
)

// ParseProperty maps a property name to a Property. Unknown names return
// ErrUnsupportedProperty.
func ParseProperty(v string) (Property, error) {
	p := Property(strings.ToLower(strings.TrimSpace(v)))
	switch p {
	case PropertySubject, PropertyStart, PropertyEnd, PropertyDescription, PropertyLocation, PropertyStatus:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProperty, v)
	}
}

// Scope selects which members of a series a multi-event edit touches.
type Scope string

const (
	// ScopeThis edits only the located event.
	ScopeThis Scope = "this"
	// ScopeFuture edits the located event and every sibling starting at or
	// after it.
	ScopeFuture Scope = "future"
	// ScopeSeries edits every member of the series.
	ScopeSeries Scope = "series"
)

// ParseScope maps this, future or series to a Scope.
func ParseScope(v string) (Scope, error) {
	s := Scope(strings.ToLower(strings.TrimSpace(v)))
	switch s {
	case ScopeThis, ScopeFuture, ScopeSeries:
		return s, nil
	default:
		return "", fmt.Errorf("%w: scope must be this, future or series, got %q", ErrValidation, v)
	}
}

// ScopeFromSeriesFlag translates the editSeries boolean: true edits the whole
// series, false edits this and future occurrences.
func ScopeFromSeriesFlag(editSeries bool) Scope {
	if editSeries {
		return ScopeSeries
	}
	return ScopeFuture
}

// EditSingleEvent replaces one property of the event identified by subject,
// start and end. Editing the end of a series member detaches it from the
// series.
func (c *Calendar) EditSingleEvent(prop Property, subject string, start, end time.Time, value string) (Event, error) {
	old, err := c.GetEvent(subject, start, end)
	if err != nil {
		return Event{}, err
	}
	edit, err := c.newEdit(prop, old, value)
	if err != nil {
		return Event{}, err
	}
	next, err := edit.apply(old)
	if err != nil {
		return Event{}, err
	}
	if err := c.store.Commit([]Key{old.Key()}, []Event{next}); err != nil {
		return Event{}, err
	}
	return next, nil
}

// EditEvents locates exactly one event by subject and start and edits it
// together with the series members scope selects. Events outside a series
// are edited alone whatever the scope. Temporal edits move every touched
// event by the same amount as the located one. The batch is atomic.
func (c *Calendar) EditEvents(prop Property, subject string, start time.Time, value string, scope Scope) ([]Event, error) {
	matches := c.FindEventsBySubjectAndStart(subject, start)
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: event %q starting %s", ErrNotFound, subject, start.Format(dateTimeLayout))
	case 1:
	default:
		return nil, fmt.Errorf("%w: %d events named %q start at %s", ErrAmbiguous, len(matches), subject, start.Format(dateTimeLayout))
	}
	located := matches[0]

	targets := []Event{located}
	if located.InSeries() {
		switch scope {
		case ScopeSeries:
			targets = c.store.Series(located.SeriesID)
		case ScopeFuture:
			targets = targets[:0]
			for _, e := range c.store.Series(located.SeriesID) {
				if !e.Start.Before(located.Start) {
					targets = append(targets, e)
				}
			}
		}
	}

	edit, err := c.newEdit(prop, located, value)
	if err != nil {
		return nil, err
	}
	removes := make([]Key, 0, len(targets))
	inserts := make([]Event, 0, len(targets))
	for _, e := range targets {
		next, err := edit.apply(e)
		if err != nil {
			return nil, err
		}
		removes = append(removes, e.Key())
		inserts = append(inserts, next)
	}
	if err := c.store.Commit(removes, inserts); err != nil {
		return nil, err
	}
	return inserts, nil
}

// EditMultipleEvents is EditEvents with the boolean series flag.
func (c *Calendar) EditMultipleEvents(prop Property, subject string, start time.Time, value string, editSeries bool) ([]Event, error) {
	return c.EditEvents(prop, subject, start, value, ScopeFromSeriesFlag(editSeries))
}

// edit is one parsed property change, applicable to any event.
type edit struct {
	apply func(Event) (Event, error)
}

// newEdit parses value once against the located event. Temporal values
// become a shift relative to located so siblings keep their own dates.
func (c *Calendar) newEdit(prop Property, located Event, value string) (edit, error) {
	var fn func(Event) Event
	switch prop {
	case PropertySubject:
		s := strings.TrimSpace(value)
		fn = func(e Event) Event { return e.WithSubject(s) }
	case PropertyDescription:
		fn = func(e Event) Event { return e.WithDescription(value) }
	case PropertyLocation:
		l, err := ParseLocation(value)
		if err != nil {
			return edit{}, err
		}
		fn = func(e Event) Event { return e.WithLocation(l) }
	case PropertyStatus:
		s, err := ParseStatus(value)
		if err != nil {
			return edit{}, err
		}
		fn = func(e Event) Event { return e.WithStatus(s) }
	case PropertyStart:
		t, err := c.ParseDateTime(value)
		if err != nil {
			return edit{}, err
		}
		delta := t.Sub(located.Start)
		fn = func(e Event) Event { return e.WithStart(e.Start.Add(delta)) }
	case PropertyEnd:
		t, err := c.ParseDateTime(value)
		if err != nil {
			return edit{}, err
		}
		delta := t.Sub(located.End)
		fn = func(e Event) Event {
			e = e.WithEnd(e.End.Add(delta))
			if e.InSeries() {
				e = e.WithSeriesID(c.seriesID())
			}
			return e
		}
	default:
		return edit{}, fmt.Errorf("%w: %q", ErrUnsupportedProperty, prop)
	}
	return edit{apply: func(e Event) (Event, error) {
		next := fn(e)
		if err := next.Validate(); err != nil {
			return Event{}, err
		}
		return next, nil
	}}, nil
}
