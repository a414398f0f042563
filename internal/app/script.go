package app

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/agis/tzcal/internal/calendar"
	"github.com/agis/tzcal/internal/contract"
	"github.com/agis/tzcal/internal/ics"
	"github.com/agis/tzcal/internal/recurrence"
	"github.com/agis/tzcal/internal/registry"
	"github.com/agis/tzcal/internal/timeparse"
)

// scriptLine is one JSONL operation. Which fields apply depends on Op.
type scriptLine struct {
	Op          string  `json:"op"`
	Name        string  `json:"name,omitempty"`
	Timezone    string  `json:"timezone,omitempty"`
	Property    string  `json:"property,omitempty"`
	Value       *string `json:"value,omitempty"`
	Subject     string  `json:"subject,omitempty"`
	Start       string  `json:"start,omitempty"`
	End         string  `json:"end,omitempty"`
	Date        string  `json:"date,omitempty"`
	From        string  `json:"from,omitempty"`
	To          string  `json:"to,omitempty"`
	At          string  `json:"at,omitempty"`
	AllDay      bool    `json:"all_day,omitempty"`
	Weekdays    string  `json:"weekdays,omitempty"`
	Count       int     `json:"count,omitempty"`
	Until       string  `json:"until,omitempty"`
	Description string  `json:"description,omitempty"`
	Location    string  `json:"location,omitempty"`
	Status      string  `json:"status,omitempty"`
	Scope       string  `json:"scope,omitempty"`
	Series      *bool   `json:"series,omitempty"`
	SeriesID    string  `json:"series_id,omitempty"`
	Target      string  `json:"target,omitempty"`
	TargetStart string  `json:"target_start,omitempty"`
	TargetDate  string  `json:"target_date,omitempty"`
	Out         string  `json:"out,omitempty"`

	Where         []string `json:"where,omitempty"`
	Sort          string   `json:"sort,omitempty"`
	Order         string   `json:"order,omitempty"`
	IncludeAllDay bool     `json:"include_all_day,omitempty"`
	Summary       bool     `json:"summary,omitempty"`
}

// session holds the calendars one script run works on.
type session struct {
	reg       *registry.Registry
	defaultTZ string
	logger    *slog.Logger
	now       func() time.Time
}

func newSession(defaultTZ string, logger *slog.Logger) *session {
	return &session{
		reg:       registry.New(),
		defaultTZ: defaultTZ,
		logger:    logger,
		now:       time.Now,
	}
}

func normalizeOp(op string) string {
	s := strings.ToLower(strings.TrimSpace(op))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}

func (s *session) execute(row scriptLine) (map[string]any, error) {
	switch normalizeOp(row.Op) {
	case "create_calendar":
		return s.createCalendar(row)
	case "edit_calendar":
		return s.editCalendar(row)
	case "use_calendar":
		return s.useCalendar(row)
	case "create_event":
		return s.createEvent(row)
	case "edit_event":
		return s.editEvent(row)
	case "edit_events":
		return s.editEvents(row)
	case "print_events":
		return s.printEvents(row)
	case "busy":
		return s.busy(row)
	case "free_busy":
		return s.freeBusy(row)
	case "copy_event":
		return s.copyEvent(row)
	case "copy_events":
		return s.copyEvents(row)
	case "export":
		return s.export(row)
	case "":
		return nil, usageErrorf("op is required")
	default:
		return nil, usageErrorf("unsupported op: %s", row.Op)
	}
}

func (s *session) createCalendar(row scriptLine) (map[string]any, error) {
	tz := firstNonEmpty(row.Timezone, s.defaultTZ)
	c, err := s.reg.CreateCalendar(row.Name, tz)
	if err != nil {
		return nil, err
	}
	return map[string]any{"calendar": s.calendarView(c)}, nil
}

func (s *session) editCalendar(row scriptLine) (map[string]any, error) {
	prop, err := registry.ParseCalendarProperty(row.Property)
	if err != nil {
		return nil, err
	}
	if row.Value == nil {
		return nil, usageErrorf("edit_calendar requires value")
	}
	if err := s.reg.EditCalendar(row.Name, prop, *row.Value); err != nil {
		return nil, err
	}
	name := row.Name
	if prop == registry.CalendarName {
		name = *row.Value
	}
	s.logger.Debug("calendar edited", "calendar", name, "property", string(prop), "value", *row.Value)
	c, err := s.reg.TargetCalendar(name)
	if err != nil {
		return nil, err
	}
	return map[string]any{"calendar": s.calendarView(c)}, nil
}

func (s *session) useCalendar(row scriptLine) (map[string]any, error) {
	if err := s.reg.SetCurrentCalendar(row.Name); err != nil {
		return nil, err
	}
	c, err := s.reg.CurrentActiveCalendar()
	if err != nil {
		return nil, err
	}
	return map[string]any{"calendar": s.calendarView(c)}, nil
}

func (s *session) createEvent(row scriptLine) (map[string]any, error) {
	c, err := s.reg.CurrentActiveCalendar()
	if err != nil {
		return nil, err
	}
	opts, err := eventOptions(row)
	if err != nil {
		return nil, err
	}
	recurring := strings.TrimSpace(row.Weekdays) != ""
	var weekdays []time.Weekday
	var until time.Time
	if recurring {
		if row.Count != 0 && strings.TrimSpace(row.Until) != "" {
			return nil, usageErrorf("use either count or until, not both")
		}
		if weekdays, err = recurrence.ParseWeekdays(row.Weekdays); err != nil {
			return nil, err
		}
		if strings.TrimSpace(row.Until) != "" {
			if until, err = s.dateField(c, "until", row.Until); err != nil {
				return nil, err
			}
		}
	}

	var created []calendar.Event
	if row.AllDay {
		date, err := s.dateField(c, "date", firstNonEmpty(row.Date, row.Start))
		if err != nil {
			return nil, err
		}
		switch {
		case !recurring:
			var e calendar.Event
			e, err = c.CreateAllDayEvent(row.Subject, date, opts...)
			created = []calendar.Event{e}
		case !until.IsZero():
			created, err = c.CreateRecurringAllDayEventUntil(row.Subject, date, weekdays, until, opts...)
		default:
			created, err = c.CreateRecurringAllDayEvent(row.Subject, date, weekdays, row.Count, opts...)
		}
		if err != nil {
			return nil, err
		}
	} else {
		start, err := dateTimeField(c, "start", row.Start)
		if err != nil {
			return nil, err
		}
		end, err := dateTimeField(c, "end", row.End)
		if err != nil {
			return nil, err
		}
		switch {
		case !recurring:
			var e calendar.Event
			e, err = c.CreateSingleEvent(row.Subject, start, end, opts...)
			created = []calendar.Event{e}
		case !until.IsZero():
			created, err = c.CreateRecurringEventUntil(row.Subject, start, end, weekdays, until, opts...)
		default:
			created, err = c.CreateRecurringEvent(row.Subject, start, end, weekdays, row.Count, opts...)
		}
		if err != nil {
			return nil, err
		}
	}
	return map[string]any{"events": eventViews(c, created)}, nil
}

func eventOptions(row scriptLine) ([]calendar.Option, error) {
	var opts []calendar.Option
	if row.Description != "" {
		opts = append(opts, calendar.WithDescription(row.Description))
	}
	if row.Location != "" {
		loc, err := calendar.ParseLocation(row.Location)
		if err != nil {
			return nil, err
		}
		opts = append(opts, calendar.WithLocation(loc))
	}
	if row.Status != "" {
		st, err := calendar.ParseStatus(row.Status)
		if err != nil {
			return nil, err
		}
		opts = append(opts, calendar.WithStatus(st))
	}
	return opts, nil
}

func (s *session) editEvent(row scriptLine) (map[string]any, error) {
	c, err := s.reg.CurrentActiveCalendar()
	if err != nil {
		return nil, err
	}
	prop, err := calendar.ParseProperty(row.Property)
	if err != nil {
		return nil, err
	}
	if row.Value == nil {
		return nil, usageErrorf("edit_event requires value")
	}
	start, err := dateTimeField(c, "start", row.Start)
	if err != nil {
		return nil, err
	}
	end, err := dateTimeField(c, "end", row.End)
	if err != nil {
		return nil, err
	}
	e, err := c.EditSingleEvent(prop, row.Subject, start, end, *row.Value)
	if err != nil {
		return nil, err
	}
	return map[string]any{"events": eventViews(c, []calendar.Event{e})}, nil
}

func (s *session) editEvents(row scriptLine) (map[string]any, error) {
	c, err := s.reg.CurrentActiveCalendar()
	if err != nil {
		return nil, err
	}
	prop, err := calendar.ParseProperty(row.Property)
	if err != nil {
		return nil, err
	}
	if row.Value == nil {
		return nil, usageErrorf("edit_events requires value")
	}
	var scope calendar.Scope
	switch {
	case strings.TrimSpace(row.Scope) != "":
		if scope, err = calendar.ParseScope(row.Scope); err != nil {
			return nil, err
		}
	case row.Series != nil:
		scope = calendar.ScopeFromSeriesFlag(*row.Series)
	default:
		return nil, usageErrorf("edit_events requires scope (this|future|series) or series")
	}
	start, err := dateTimeField(c, "start", row.Start)
	if err != nil {
		return nil, err
	}
	edited, err := c.EditEvents(prop, row.Subject, start, *row.Value, scope)
	if err != nil {
		return nil, err
	}
	return map[string]any{"scope": string(scope), "events": eventViews(c, edited)}, nil
}

func (s *session) printEvents(row scriptLine) (map[string]any, error) {
	c, err := s.calendarFor(row.Name)
	if err != nil {
		return nil, err
	}
	var items []calendar.Event
	var from, to time.Time
	switch {
	case row.SeriesID != "":
		items = c.EventsBySeriesID(row.SeriesID)
	case row.Date != "":
		date, err := s.dateField(c, "date", row.Date)
		if err != nil {
			return nil, err
		}
		items = c.EventsOnDate(date)
		from, to = date, date
	case row.From != "" || row.To != "":
		if from, err = dateTimeField(c, "from", row.From); err != nil {
			return nil, err
		}
		if to, err = dateTimeField(c, "to", row.To); err != nil {
			return nil, err
		}
		items = c.EventsInRange(from, to)
	case row.Subject != "" && row.Start != "":
		start, err := dateTimeField(c, "start", row.Start)
		if err != nil {
			return nil, err
		}
		items = c.FindEventsBySubjectAndStart(row.Subject, start)
	default:
		items = c.Events()
	}
	preds, err := parsePredicates(row.Where)
	if err != nil {
		return nil, err
	}
	if items, err = applyPredicates(items, preds); err != nil {
		return nil, err
	}
	if err := sortEvents(items, row.Sort, row.Order); err != nil {
		return nil, err
	}
	res := map[string]any{"calendar": c.Name(), "count": len(items), "events": eventViews(c, items)}
	if row.Summary {
		if from.IsZero() {
			var ok bool
			if from, to, ok = summaryBounds(items); !ok {
				res["days"] = []daySummary{}
				return res, nil
			}
		}
		res["days"] = summarizeEventsByDay(items, from, to)
	}
	return res, nil
}

func (s *session) busy(row scriptLine) (map[string]any, error) {
	c, err := s.calendarFor(row.Name)
	if err != nil {
		return nil, err
	}
	at, err := dateTimeField(c, "at", row.At)
	if err != nil {
		return nil, err
	}
	busy := c.IsBusy(at)
	status := "available"
	if busy {
		status = "busy"
	}
	return map[string]any{"calendar": c.Name(), "at": timeparse.FormatDateTime(at), "busy": busy, "status": status}, nil
}

func (s *session) freeBusy(row scriptLine) (map[string]any, error) {
	c, err := s.calendarFor(row.Name)
	if err != nil {
		return nil, err
	}
	from, err := dateTimeField(c, "from", row.From)
	if err != nil {
		return nil, err
	}
	to, err := dateTimeField(c, "to", row.To)
	if err != nil {
		return nil, err
	}
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: to must be after from", calendar.ErrValidation)
	}
	items := c.EventsInRange(from, to)
	blocks := buildBusyBlocks(items, row.IncludeAllDay)
	minutes := int64(0)
	for _, b := range blocks {
		minutes += b.Minutes
	}
	return map[string]any{"calendar": c.Name(), "blocks": blocks, "busy_minutes": minutes, "events_scanned": len(items)}, nil
}

func (s *session) copyEvent(row scriptLine) (map[string]any, error) {
	c, err := s.reg.CurrentActiveCalendar()
	if err != nil {
		return nil, err
	}
	start, err := dateTimeField(c, "start", row.Start)
	if err != nil {
		return nil, err
	}
	targetStart, err := dateTimeField(c, "target_start", row.TargetStart)
	if err != nil {
		return nil, err
	}
	copied, err := s.reg.CopyEvent(row.Subject, start, row.Target, targetStart)
	if err != nil {
		return nil, err
	}
	dst, err := s.reg.TargetCalendar(row.Target)
	if err != nil {
		return nil, err
	}
	return map[string]any{"events": eventViews(dst, []calendar.Event{copied})}, nil
}

func (s *session) copyEvents(row scriptLine) (map[string]any, error) {
	c, err := s.reg.CurrentActiveCalendar()
	if err != nil {
		return nil, err
	}
	dst, err := s.reg.TargetCalendar(row.Target)
	if err != nil {
		return nil, err
	}
	targetDate, err := s.dateField(dst, "target_date", row.TargetDate)
	if err != nil {
		return nil, err
	}
	var copied []calendar.Event
	if row.Date != "" {
		date, err := s.dateField(c, "date", row.Date)
		if err != nil {
			return nil, err
		}
		if copied, err = s.reg.CopyEventsOnDate(date, row.Target, targetDate); err != nil {
			return nil, err
		}
	} else {
		from, err := s.dateField(c, "from", row.From)
		if err != nil {
			return nil, err
		}
		to, err := s.dateField(c, "to", row.To)
		if err != nil {
			return nil, err
		}
		if copied, err = s.reg.CopyEventsBetweenDates(from, to, row.Target, targetDate); err != nil {
			return nil, err
		}
	}
	return map[string]any{"count": len(copied), "events": eventViews(dst, copied)}, nil
}

func (s *session) export(row scriptLine) (map[string]any, error) {
	c, err := s.calendarFor(row.Name)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := ics.Export(&buf, c); err != nil {
		return nil, err
	}
	res := map[string]any{"calendar": c.Name(), "events": len(c.Events())}
	if strings.TrimSpace(row.Out) == "" {
		res["ics"] = buf.String()
		return res, nil
	}
	if err := os.WriteFile(row.Out, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", row.Out, err)
	}
	s.logger.Info("calendar exported", "calendar", c.Name(), "path", row.Out, "events", res["events"])
	res["path"] = row.Out
	return res, nil
}

// calendarFor returns the named calendar, or the active one when name is blank.
func (s *session) calendarFor(name string) (*calendar.Calendar, error) {
	if strings.TrimSpace(name) != "" {
		return s.reg.TargetCalendar(name)
	}
	return s.reg.CurrentActiveCalendar()
}

// dateField accepts YYYY-MM-DD and the relative words, read against today in
// c's zone.
func (s *session) dateField(c *calendar.Calendar, name, v string) (time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return time.Time{}, usageErrorf("%s is required", name)
	}
	ts, err := timeparse.ParseDay(v, calendar.WallClock(s.now(), c.Location()))
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", name, err)
	}
	return ts, nil
}

func dateTimeField(c *calendar.Calendar, name, v string) (time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return time.Time{}, usageErrorf("%s is required", name)
	}
	ts, err := c.ParseDateTime(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", name, err)
	}
	return ts, nil
}

func (s *session) calendarView(c *calendar.Calendar) contract.Calendar {
	active, _ := s.reg.CurrentActiveCalendar()
	return contract.Calendar{
		Name:     c.Name(),
		Timezone: c.Location().String(),
		Active:   active == c,
		Events:   len(c.Events()),
	}
}

func eventViews(c *calendar.Calendar, events []calendar.Event) []contract.Event {
	out := make([]contract.Event, 0, len(events))
	for _, e := range events {
		out = append(out, contract.Event{
			Calendar:    c.Name(),
			Subject:     e.Subject,
			Start:       timeparse.FormatDateTime(e.Start),
			End:         timeparse.FormatDateTime(e.End),
			Timezone:    c.Location().String(),
			AllDay:      e.AllDay,
			Description: e.Description,
			Location:    string(e.Location),
			Status:      string(e.Status),
			SeriesID:    e.SeriesID,
		})
	}
	return out
}
