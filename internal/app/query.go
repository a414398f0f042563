package app

import (
	"sort"
	"strings"
	"time"

	"github.com/agis/tzcal/internal/calendar"
	"github.com/agis/tzcal/internal/timeparse"
)

type predicate struct {
	field string
	op    string
	value string
}

// parsePredicates reads clauses like subject~stand or start>=2025-06-03T00:00.
func parsePredicates(wheres []string) ([]predicate, error) {
	out := make([]predicate, 0, len(wheres))
	ops := []string{"==", "!=", ">=", "<=", "~", ">", "<"}
	for _, w := range wheres {
		s := strings.TrimSpace(w)
		if s == "" {
			continue
		}
		var op string
		idx := -1
		for _, candidate := range ops {
			if i := strings.Index(s, candidate); i > 0 && (idx < 0 || i < idx) {
				op = candidate
				idx = i
			}
		}
		if op == "" {
			return nil, usageErrorf("invalid where clause: %s", w)
		}
		field := strings.TrimSpace(s[:idx])
		val := strings.Trim(strings.TrimSpace(s[idx+len(op):]), "\"")
		if field == "" || val == "" {
			return nil, usageErrorf("invalid where clause: %s", w)
		}
		out = append(out, predicate{field: strings.ToLower(field), op: op, value: val})
	}
	return out, nil
}

func applyPredicates(items []calendar.Event, preds []predicate) ([]calendar.Event, error) {
	filtered := make([]calendar.Event, 0, len(items))
	for _, e := range items {
		ok, err := matchesAll(e, preds)
		if err != nil {
			return nil, err
		}
		if ok {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

func matchesAll(e calendar.Event, preds []predicate) (bool, error) {
	for _, p := range preds {
		ok, err := matchesOne(e, p)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func matchesOne(e calendar.Event, p predicate) (bool, error) {
	switch p.field {
	case "subject":
		return compareString(e.Subject, p.op, p.value)
	case "description":
		return compareString(e.Description, p.op, p.value)
	case "location":
		return compareString(string(e.Location), p.op, p.value)
	case "status":
		return compareString(string(e.Status), p.op, p.value)
	case "series_id":
		return compareString(e.SeriesID, p.op, p.value)
	case "start":
		return compareTime(e.Start, p.op, p.value)
	case "end":
		return compareTime(e.End, p.op, p.value)
	default:
		return false, usageErrorf("unsupported field in where: %s", p.field)
	}
}

func compareString(actual, op, expected string) (bool, error) {
	a := strings.ToLower(actual)
	e := strings.ToLower(expected)
	switch op {
	case "==":
		return a == e, nil
	case "!=":
		return a != e, nil
	case "~":
		return strings.Contains(a, e), nil
	default:
		return false, usageErrorf("operator %s not supported for text fields", op)
	}
}

// compareTime accepts a date-time or a bare date (its midnight).
func compareTime(actual time.Time, op, expected string) (bool, error) {
	parsed, err := timeparse.ParseDateTime(expected)
	if err != nil {
		if parsed, err = timeparse.ParseDate(expected); err != nil {
			return false, err
		}
	}
	switch op {
	case "==":
		return actual.Equal(parsed), nil
	case "!=":
		return !actual.Equal(parsed), nil
	case ">":
		return actual.After(parsed), nil
	case ">=":
		return !actual.Before(parsed), nil
	case "<":
		return actual.Before(parsed), nil
	case "<=":
		return !actual.After(parsed), nil
	default:
		return false, usageErrorf("operator %s not supported for time fields", op)
	}
}

// sortEvents reorders items stably; the calendar's own order breaks ties.
func sortEvents(items []calendar.Event, sortField, order string) error {
	var less func(a, b calendar.Event) bool
	switch strings.ToLower(strings.TrimSpace(sortField)) {
	case "", "start":
		less = func(a, b calendar.Event) bool { return a.Start.Before(b.Start) }
	case "end":
		less = func(a, b calendar.Event) bool { return a.End.Before(b.End) }
	case "subject":
		less = func(a, b calendar.Event) bool { return a.Subject < b.Subject }
	default:
		return usageErrorf("unsupported sort field: %s", sortField)
	}
	desc := false
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", "asc":
	case "desc":
		desc = true
	default:
		return usageErrorf("order must be asc or desc, got %q", order)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
	return nil
}
