package app

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agis/tzcal/internal/contract"
)

func TestRuleExpandCount(t *testing.T) {
	chdirTemp(t)
	out, _, err := runCLI(t, "rule", "expand", "--weekdays", "MTR", "--from", "2025-06-02", "--count", "4", "--jsonl")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	var dates []string
	for _, line := range lines {
		var occ contract.Occurrence
		require.NoError(t, json.Unmarshal([]byte(line), &occ))
		dates = append(dates, occ.Date)
	}
	assert.Equal(t, []string{"2025-06-02", "2025-06-03", "2025-06-05", "2025-06-09"}, dates)
}

func TestRuleExpandUntil(t *testing.T) {
	chdirTemp(t)
	out, _, err := runCLI(t, "rule", "expand", "--weekdays", "fri", "--from", "2025-06-02", "--until", "2025-06-13", "--plain", "--fields", "date,weekday")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-06\tFriday\n", out)
}

func TestRuleExpandErrors(t *testing.T) {
	chdirTemp(t)
	tests := []struct {
		name string
		args []string
	}{
		{"missing weekdays", []string{"--from", "2025-06-02", "--count", "2"}},
		{"bad weekday", []string{"--weekdays", "mon,funday", "--count", "2"}},
		{"both modes", []string{"--weekdays", "M", "--count", "2", "--until", "2025-07-01"}},
		{"neither mode", []string{"--weekdays", "M"}},
		{"bad date", []string{"--weekdays", "M", "--from", "06/02/2025", "--count", "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, append([]string{"rule", "expand"}, tt.args...)...)
			assert.Equal(t, 2, ExitCode(err))
		})
	}
}
