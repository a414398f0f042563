package calendar

import "errors"

// ErrValidation is returned when input fails a business rule: blank subject,
// end before start, unparsable date text, a rule with no occurrences.
var ErrValidation = errors.New("validation error")

// ErrInvalidDateFormat marks a temporal value that could not be parsed.
// It is also an ErrValidation.
var ErrInvalidDateFormat = &kindError{msg: "invalid date format", parent: ErrValidation}

// ErrMultiDaySeries is returned when a recurring event would start and end on
// different dates. It is also an ErrValidation.
var ErrMultiDaySeries = &kindError{msg: "Recurring events must not span multiple days", parent: ErrValidation}

// ErrDuplicate is returned when an event with the same subject, start and end
// already exists, or a calendar name is taken.
var ErrDuplicate = errors.New("duplicate")

// ErrNotFound is returned when an event, series or calendar does not exist.
var ErrNotFound = errors.New("not found")

// ErrAmbiguous is returned when a subject and start locate more than one event.
var ErrAmbiguous = errors.New("ambiguous")

// ErrNoActiveCalendar is returned by operations that need a current calendar
// when none has been selected.
var ErrNoActiveCalendar = errors.New("no active calendar")

// ErrUnsupportedProperty is returned when an edit names an unknown property.
var ErrUnsupportedProperty = errors.New("unsupported property")

type kindError struct {
	msg    string
	parent error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.parent }
