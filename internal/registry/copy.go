package registry

import (
	"fmt"
	"time"

	"github.com/agis/tzcal/internal/calendar"
	"github.com/agis/tzcal/internal/timeparse"
)

// CopyEvent copies the active calendar's event named subject starting at
// sourceStart into target so that it starts at targetStart, read in the
// target's zone. The duration is preserved.
func (r *Registry) CopyEvent(subject string, sourceStart time.Time, target string, targetStart time.Time) (calendar.Event, error) {
	src, err := r.CurrentActiveCalendar()
	if err != nil {
		return calendar.Event{}, err
	}
	dst, err := r.TargetCalendar(target)
	if err != nil {
		return calendar.Event{}, err
	}
	matches := src.FindEventsBySubjectAndStart(subject, sourceStart)
	switch len(matches) {
	case 0:
		return calendar.Event{}, fmt.Errorf("%w: event %q starting %s in %q", calendar.ErrNotFound,
			subject, timeparse.FormatDateTime(sourceStart), src.Name())
	case 1:
	default:
		return calendar.Event{}, fmt.Errorf("%w: %d events named %q start at %s", calendar.ErrAmbiguous,
			len(matches), subject, timeparse.FormatDateTime(sourceStart))
	}
	ev := matches[0]

	startAt := calendar.Instant(ev.Start, src.Location())
	endAt := calendar.Instant(ev.End, src.Location())
	delta := calendar.Instant(targetStart, dst.Location()).Sub(startAt)

	copied := ev.WithSpan(
		calendar.WallClock(startAt.Add(delta), dst.Location()),
		calendar.WallClock(endAt.Add(delta), dst.Location()),
	)
	if err := dst.Import([]calendar.Event{copied}); err != nil {
		return calendar.Event{}, err
	}
	return copied, nil
}

// CopyEventsOnDate copies every event of the active calendar on date into
// target, moved by the whole days between date and targetDate.
func (r *Registry) CopyEventsOnDate(date time.Time, target string, targetDate time.Time) ([]calendar.Event, error) {
	src, err := r.CurrentActiveCalendar()
	if err != nil {
		return nil, err
	}
	return r.copyShifted(src, src.EventsOnDate(date), target, timeparse.DaysBetween(date, targetDate))
}

// CopyEventsBetweenDates copies every event of the active calendar
// overlapping the dates start through end into target. The shift is the
// whole days between start and targetDate.
func (r *Registry) CopyEventsBetweenDates(start, end time.Time, target string, targetDate time.Time) ([]calendar.Event, error) {
	src, err := r.CurrentActiveCalendar()
	if err != nil {
		return nil, err
	}
	from := timeparse.DateOf(start)
	to := timeparse.DateOf(end)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end date %s is before start date %s", calendar.ErrValidation,
			timeparse.FormatDate(end), timeparse.FormatDate(start))
	}
	var matched []calendar.Event
	for _, e := range src.Events() {
		// Closed overlap with [from 00:00, to 23:59:59], as for a single date.
		if !e.Start.After(to.Add(24*time.Hour-time.Second)) && !e.End.Before(from) {
			matched = append(matched, e)
		}
	}
	return r.copyShifted(src, matched, target, timeparse.DaysBetween(start, targetDate))
}

// copyShifted moves each event by days in the source zone, then reads the
// resulting instants in the target zone. The insert is all or nothing.
func (r *Registry) copyShifted(src *calendar.Calendar, events []calendar.Event, target string, days int) ([]calendar.Event, error) {
	dst, err := r.TargetCalendar(target)
	if err != nil {
		return nil, err
	}
	out := make([]calendar.Event, 0, len(events))
	for _, e := range events {
		startAt := calendar.Instant(e.Start, src.Location()).AddDate(0, 0, days)
		endAt := calendar.Instant(e.End, src.Location()).AddDate(0, 0, days)
		out = append(out, e.WithSpan(
			calendar.WallClock(startAt, dst.Location()),
			calendar.WallClock(endAt, dst.Location()),
		))
	}
	if err := dst.Import(out); err != nil {
		return nil, err
	}
	return out, nil
}
