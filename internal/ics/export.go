// Package ics renders calendars as iCalendar (RFC 5545) documents.
package ics

import (
	"io"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/agis/tzcal/internal/calendar"
	"github.com/agis/tzcal/internal/timeparse"
)

const productID = "-//tzcal//EN"

// PropSeries carries the series id of recurring events.
const PropSeries = ical.ComponentProperty("X-TZCAL-SERIES")

// Export writes every event of c as a VEVENT. Timed events carry UTC
// instants; all-day events are written as DATE values.
func Export(w io.Writer, c *calendar.Calendar) error {
	return ExportEvents(w, c.Name(), c.Location(), c.Events())
}

// ExportEvents writes events whose wall-clock times are read in loc.
func ExportEvents(w io.Writer, name string, loc *time.Location, events []calendar.Event) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(name)
	cal.SetXWRTimezone(loc.String())

	stamp := time.Now().UTC()
	for _, e := range events {
		ve := cal.AddEvent(EventUID(name, e))
		ve.SetDtStampTime(stamp)
		ve.SetSummary(e.Subject)
		if e.AllDay {
			ve.SetAllDayStartAt(e.Start)
			ve.SetAllDayEndAt(e.Start.AddDate(0, 0, 1))
		} else {
			ve.SetStartAt(calendar.Instant(e.Start, loc))
			ve.SetEndAt(calendar.Instant(e.End, loc))
		}
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		if e.Location != calendar.LocationNone {
			ve.SetLocation(string(e.Location))
		}
		ve.SetProperty(ical.ComponentPropertyClass, classOf(e.Status))
		if e.SeriesID != "" {
			ve.SetProperty(PropSeries, e.SeriesID)
		}
	}
	_, err := io.WriteString(w, cal.Serialize())
	return err
}

// EventUID is stable for a given calendar name and event identity.
func EventUID(calendarName string, e calendar.Event) string {
	seed := calendarName + "\x00" + e.Subject + "\x00" +
		timeparse.FormatDateTime(e.Start) + "\x00" + timeparse.FormatDateTime(e.End)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)).String() + "@tzcal"
}

func classOf(s calendar.Status) string {
	if s == calendar.StatusPrivate {
		return "PRIVATE"
	}
	return "PUBLIC"
}
