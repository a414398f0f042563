// Package registry owns named calendars, tracks the active one and copies
// events between calendars across time zones.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/agis/tzcal/internal/calendar"
)

// CalendarProperty names an editable calendar attribute.
type CalendarProperty string

const (
	CalendarName     CalendarProperty = "name"
	CalendarTimezone CalendarProperty = "timezone"
)

// ParseCalendarProperty maps name or timezone to a CalendarProperty.
func ParseCalendarProperty(v string) (CalendarProperty, error) {
	p := CalendarProperty(strings.ToLower(strings.TrimSpace(v)))
	switch p {
	case CalendarName, CalendarTimezone:
		return p, nil
	default:
		return "", fmt.Errorf("%w: calendar property %q", calendar.ErrUnsupportedProperty, v)
	}
}

// Registry maps calendar names to calendars. It is not safe for concurrent
// use.
type Registry struct {
	calendars map[string]*calendar.Calendar
	active    string
}

// New returns an empty registry with no active calendar.
func New() *Registry {
	return &Registry{calendars: map[string]*calendar.Calendar{}}
}

// LoadZone resolves an IANA zone name. Unknown names are validation errors.
func LoadZone(zoneID string) (*time.Location, error) {
	id := strings.TrimSpace(zoneID)
	if id == "" {
		return nil, fmt.Errorf("%w: time zone is required", calendar.ErrValidation)
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown time zone %q", calendar.ErrValidation, zoneID)
	}
	return loc, nil
}

// CreateCalendar adds an empty calendar.
func (r *Registry) CreateCalendar(name, zoneID string) (*calendar.Calendar, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: calendar name is required", calendar.ErrValidation)
	}
	if _, ok := r.calendars[name]; ok {
		return nil, fmt.Errorf("%w: calendar %q already exists", calendar.ErrDuplicate, name)
	}
	loc, err := LoadZone(zoneID)
	if err != nil {
		return nil, err
	}
	c := calendar.New(name, loc)
	r.calendars[name] = c
	return c, nil
}

// EditCalendar renames a calendar or changes its time zone. Renaming the
// active calendar keeps it active.
func (r *Registry) EditCalendar(name string, prop CalendarProperty, value string) error {
	c, err := r.TargetCalendar(name)
	if err != nil {
		return err
	}
	switch prop {
	case CalendarName:
		next := strings.TrimSpace(value)
		if next == "" {
			return fmt.Errorf("%w: calendar name is required", calendar.ErrValidation)
		}
		if next == c.Name() {
			return nil
		}
		if _, taken := r.calendars[next]; taken {
			return fmt.Errorf("%w: calendar %q already exists", calendar.ErrDuplicate, next)
		}
		delete(r.calendars, c.Name())
		if r.active == c.Name() {
			r.active = next
		}
		c.Rename(next)
		r.calendars[next] = c
		return nil
	case CalendarTimezone:
		loc, err := LoadZone(value)
		if err != nil {
			return err
		}
		return c.SetTimeZone(loc)
	default:
		return fmt.Errorf("%w: calendar property %q", calendar.ErrUnsupportedProperty, prop)
	}
}

// SetCurrentCalendar makes name the active calendar.
func (r *Registry) SetCurrentCalendar(name string) error {
	c, err := r.TargetCalendar(name)
	if err != nil {
		return err
	}
	r.active = c.Name()
	return nil
}

// CurrentActiveCalendar returns the active calendar.
func (r *Registry) CurrentActiveCalendar() (*calendar.Calendar, error) {
	if r.active == "" {
		return nil, fmt.Errorf("%w: use a calendar first", calendar.ErrNoActiveCalendar)
	}
	return r.TargetCalendar(r.active)
}

// TargetCalendar returns the calendar called name.
func (r *Registry) TargetCalendar(name string) (*calendar.Calendar, error) {
	c, ok := r.calendars[strings.TrimSpace(name)]
	if !ok {
		return nil, fmt.Errorf("%w: calendar %q", calendar.ErrNotFound, name)
	}
	return c, nil
}

// Names lists calendar names alphabetically.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.calendars))
	for name := range r.calendars {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
