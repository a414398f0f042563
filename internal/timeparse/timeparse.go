package timeparse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04"
)

// ErrFormat is wrapped by every parse failure.
var ErrFormat = errors.New("invalid date format")

// ParseDate parses YYYY-MM-DD into a floating midnight. The returned value is
// in UTC only as a carrier; it holds a wall-clock reading, not an instant.
func ParseDate(input string) (time.Time, error) {
	s := strings.TrimSpace(input)
	ts, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q, expected YYYY-MM-DD", ErrFormat, input)
	}
	return ts, nil
}

// ParseDateTime parses YYYY-MM-DDTHH:MM into a floating wall-clock value.
func ParseDateTime(input string) (time.Time, error) {
	s := strings.TrimSpace(input)
	ts, err := time.ParseInLocation(DateTimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q, expected YYYY-MM-DDTHH:MM", ErrFormat, input)
	}
	return ts, nil
}

// ParseDay accepts today, tomorrow, yesterday, +Nd and -Nd relative to now's
// wall clock date, and otherwise falls back to ParseDate.
func ParseDay(input string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", ErrFormat)
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	switch s {
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		sign := 1
		if strings.HasPrefix(s, "-") {
			sign = -1
		}
		raw := strings.TrimPrefix(strings.TrimPrefix(s, "+"), "-")
		if strings.HasSuffix(raw, "d") {
			n, err := strconv.Atoi(strings.TrimSuffix(raw, "d"))
			if err != nil {
				return time.Time{}, fmt.Errorf("%w: invalid relative day %q", ErrFormat, input)
			}
			return today.AddDate(0, 0, sign*n), nil
		}
	}
	return ParseDate(input)
}

func FormatDate(t time.Time) string     { return t.Format(DateLayout) }
func FormatDateTime(t time.Time) string { return t.Format(DateTimeLayout) }

// DateOf truncates a wall-clock value to its midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysBetween returns the whole calendar-day difference to - from.
func DaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
