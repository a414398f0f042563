package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func formatAll(ts []time.Time) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Format("2006-01-02"))
	}
	return out
}

func TestGenerateCountMTR(t *testing.T) {
	wds, err := ParseWeekdays("MTR")
	require.NoError(t, err)

	got, err := Generate(Rule{Weekdays: wds, Count: 4}, day(2025, 6, 2))
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-02", "2025-06-03", "2025-06-05", "2025-06-09"}, formatAll(got))
}

func TestGenerateAnchorNotMatching(t *testing.T) {
	// 2025-06-04 is a Wednesday; the first Friday follows it.
	got, err := Generate(Rule{Weekdays: []time.Weekday{time.Friday}, Count: 2}, day(2025, 6, 4))
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-06", "2025-06-13"}, formatAll(got))
}

func TestGenerateUntilIsExclusive(t *testing.T) {
	wds := []time.Weekday{time.Monday, time.Wednesday}
	got, err := Generate(Rule{Weekdays: wds, Until: day(2025, 6, 16)}, day(2025, 6, 2))
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-02", "2025-06-04", "2025-06-09", "2025-06-11"}, formatAll(got))
}

func TestGenerateProperties(t *testing.T) {
	rules := []Rule{
		{Weekdays: []time.Weekday{time.Sunday}, Until: day(2026, 1, 1)},
		{Weekdays: []time.Weekday{time.Tuesday, time.Saturday}, Until: day(2025, 3, 3)},
		{Weekdays: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}, Count: 37},
		{Weekdays: []time.Weekday{time.Thursday}, Count: 1},
	}
	anchor := day(2025, 1, 9)
	for _, r := range rules {
		got, err := Generate(r, anchor)
		require.NoError(t, err)
		if r.Count > 0 {
			assert.Len(t, got, r.Count)
		} else if len(got) > 0 {
			assert.True(t, got[len(got)-1].Before(r.Until))
		}
		for i, d := range got {
			assert.Contains(t, r.Weekdays, d.Weekday())
			if i > 0 {
				assert.True(t, got[i-1].Before(d))
			}
		}
		again, err := Generate(r, anchor)
		require.NoError(t, err)
		assert.Equal(t, got, again)
	}
}

func TestGenerateUntilBeforeAnchorIsEmpty(t *testing.T) {
	got, err := Generate(Rule{Weekdays: []time.Weekday{time.Monday}, Until: day(2025, 6, 2)}, day(2025, 6, 2))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRuleValidate(t *testing.T) {
	cases := []Rule{
		{Count: 3},
		{Weekdays: []time.Weekday{time.Monday}},
		{Weekdays: []time.Weekday{time.Monday}, Count: 3, Until: day(2025, 1, 1)},
		{Weekdays: []time.Weekday{time.Monday}, Count: -1},
		{Weekdays: []time.Weekday{time.Monday}, Count: MaxOccurrences + 1},
	}
	for _, r := range cases {
		assert.ErrorIs(t, r.Validate(), ErrInvalidRule, "%+v", r)
	}
}

func TestGenerateRejectsRunawayUntil(t *testing.T) {
	_, err := Generate(Rule{Weekdays: []time.Weekday{time.Monday, time.Friday}, Until: day(2200, 1, 1)}, day(2025, 1, 1))
	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestParseWeekdays(t *testing.T) {
	got, err := ParseWeekdays("MWFMW")
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, got)

	got, err = ParseWeekdays("mon, thursday,sun")
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Monday, time.Thursday, time.Sunday}, got)

	_, err = ParseWeekdays("MX")
	assert.ErrorIs(t, err, ErrInvalidRule)
	_, err = ParseWeekdays("")
	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestFormatWeekdays(t *testing.T) {
	assert.Equal(t, "MTRU", FormatWeekdays([]time.Weekday{time.Sunday, time.Thursday, time.Monday, time.Tuesday}))
}
