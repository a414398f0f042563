// Package recurrence expands weekly day-of-week rules into concrete dates.
package recurrence

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// MaxOccurrences caps a single expansion. Until-based rules that would run
// past it are rejected instead of truncated.
const MaxOccurrences = 5000

// ErrInvalidRule is wrapped by every rule validation failure.
var ErrInvalidRule = errors.New("invalid recurrence rule")

// Rule describes a weekly recurrence. Exactly one of Count or Until is set;
// Until is an exclusive date bound.
type Rule struct {
	Weekdays []time.Weekday
	Count    int
	Until    time.Time
}

// Validate checks the termination mode and weekday set.
func (r Rule) Validate() error {
	if len(r.Weekdays) == 0 {
		return fmt.Errorf("%w: at least one weekday is required", ErrInvalidRule)
	}
	hasUntil := !r.Until.IsZero()
	switch {
	case r.Count != 0 && hasUntil:
		return fmt.Errorf("%w: use either a repeat count or an until date, not both", ErrInvalidRule)
	case r.Count == 0 && !hasUntil:
		return fmt.Errorf("%w: a repeat count or an until date is required", ErrInvalidRule)
	case r.Count < 0:
		return fmt.Errorf("%w: repeat count must be positive", ErrInvalidRule)
	case r.Count > MaxOccurrences:
		return fmt.Errorf("%w: repeat count exceeds %d", ErrInvalidRule, MaxOccurrences)
	}
	return nil
}

// Generate returns the dates, starting at anchor's date, whose weekday is in
// the rule. Dates are midnights in anchor's location, strictly increasing.
func Generate(r Rule, anchor time.Time) ([]time.Time, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	y, m, d := anchor.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, anchor.Location())

	opt := rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   start,
		Byweekday: toRRuleWeekdays(r.Weekdays),
	}
	if r.Count > 0 {
		opt.Count = r.Count
	} else {
		uy, um, ud := r.Until.Date()
		// rrule treats UNTIL as inclusive; stop one second before the bound.
		opt.Until = time.Date(uy, um, ud, 0, 0, 0, 0, anchor.Location()).Add(-time.Second)
	}
	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}

	out := make([]time.Time, 0, r.Count)
	next := rule.Iterator()
	for {
		v, ok := next()
		if !ok {
			break
		}
		if len(out) == MaxOccurrences {
			return nil, fmt.Errorf("%w: more than %d occurrences before until date", ErrInvalidRule, MaxOccurrences)
		}
		out = append(out, v)
	}
	return out, nil
}

func toRRuleWeekdays(wds []time.Weekday) []rrule.Weekday {
	out := make([]rrule.Weekday, 0, len(wds))
	for _, wd := range wds {
		switch wd {
		case time.Monday:
			out = append(out, rrule.MO)
		case time.Tuesday:
			out = append(out, rrule.TU)
		case time.Wednesday:
			out = append(out, rrule.WE)
		case time.Thursday:
			out = append(out, rrule.TH)
		case time.Friday:
			out = append(out, rrule.FR)
		case time.Saturday:
			out = append(out, rrule.SA)
		case time.Sunday:
			out = append(out, rrule.SU)
		}
	}
	return out
}

var letters = map[rune]time.Weekday{
	'M': time.Monday,
	'T': time.Tuesday,
	'W': time.Wednesday,
	'R': time.Thursday,
	'F': time.Friday,
	'S': time.Saturday,
	'U': time.Sunday,
}

// ParseWeekdays accepts either the compact letter form ("MTWRFSU") or a
// comma-separated list of weekday names ("mon,wed,friday").
func ParseWeekdays(v string) ([]time.Weekday, error) {
	s := strings.TrimSpace(v)
	if s == "" {
		return nil, fmt.Errorf("%w: at least one weekday is required", ErrInvalidRule)
	}
	seen := map[time.Weekday]bool{}
	out := make([]time.Weekday, 0, 7)
	add := func(wd time.Weekday) {
		if !seen[wd] {
			seen[wd] = true
			out = append(out, wd)
		}
	}
	if isLetterForm(s) {
		for _, r := range s {
			add(letters[r])
		}
		return out, nil
	}
	for _, p := range strings.Split(s, ",") {
		wd, err := parseWeekdayToken(p)
		if err != nil {
			return nil, err
		}
		add(wd)
	}
	return out, nil
}

func isLetterForm(s string) bool {
	for _, r := range s {
		if _, ok := letters[r]; !ok {
			return false
		}
	}
	return true
}

func parseWeekdayToken(v string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "mon", "monday":
		return time.Monday, nil
	case "tue", "tues", "tuesday":
		return time.Tuesday, nil
	case "wed", "wednesday":
		return time.Wednesday, nil
	case "thu", "thurs", "thursday":
		return time.Thursday, nil
	case "fri", "friday":
		return time.Friday, nil
	case "sat", "saturday":
		return time.Saturday, nil
	case "sun", "sunday":
		return time.Sunday, nil
	default:
		return time.Sunday, fmt.Errorf("%w: invalid weekday %q", ErrInvalidRule, v)
	}
}

// FormatWeekdays renders weekdays in the compact letter form, Monday first.
func FormatWeekdays(wds []time.Weekday) string {
	set := map[time.Weekday]bool{}
	for _, wd := range wds {
		set[wd] = true
	}
	var b strings.Builder
	for _, r := range "MTWRFSU" {
		if set[letters[r]] {
			b.WriteRune(r)
		}
	}
	return b.String()
}
