package app

import (
	"time"

	"github.com/agis/tzcal/internal/calendar"
	"github.com/agis/tzcal/internal/timeparse"
)

type daySummary struct {
	Date   string `json:"date"`
	Total  int    `json:"total"`
	AllDay int    `json:"all_day"`
	Timed  int    `json:"timed"`
}

// summarizeEventsByDay buckets events by start date, with one row for every
// date from..to inclusive.
func summarizeEventsByDay(events []calendar.Event, from, to time.Time) []daySummary {
	start, end := timeparse.DateOf(from), timeparse.DateOf(to)
	if end.Before(start) {
		return nil
	}
	buckets := map[string]*daySummary{}
	for _, e := range events {
		day := timeparse.FormatDate(e.Start)
		row, ok := buckets[day]
		if !ok {
			row = &daySummary{Date: day}
			buckets[day] = row
		}
		row.Total++
		if e.AllDay {
			row.AllDay++
		} else {
			row.Timed++
		}
	}

	rows := make([]daySummary, 0, timeparse.DaysBetween(start, end)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := timeparse.FormatDate(d)
		if row, ok := buckets[key]; ok {
			rows = append(rows, *row)
			continue
		}
		rows = append(rows, daySummary{Date: key})
	}
	return rows
}

// summaryBounds picks the dates a summary covers when the query gave none.
func summaryBounds(events []calendar.Event) (time.Time, time.Time, bool) {
	if len(events) == 0 {
		return time.Time{}, time.Time{}, false
	}
	from, to := events[0].Start, events[0].Start
	for _, e := range events[1:] {
		if e.Start.Before(from) {
			from = e.Start
		}
		if e.Start.After(to) {
			to = e.Start
		}
	}
	return from, to, true
}
