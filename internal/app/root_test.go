package app

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWantsStructuredErrorOutput(t *testing.T) {
	assert.True(t, wantsStructuredErrorOutput([]string{"run", "--json"}))
	assert.True(t, wantsStructuredErrorOutput([]string{"run", "--jsonl=true"}))
	assert.False(t, wantsStructuredErrorOutput([]string{"run", "--", "--json"}))
	assert.False(t, wantsStructuredErrorOutput([]string{"run", "--plain"}))
}

func TestSplitCSV(t *testing.T) {
	assert.Nil(t, splitCSV("  "))
	assert.Equal(t, []string{"subject", "start"}, splitCSV("subject, ,start"))
}

func TestConflictCount(t *testing.T) {
	assert.Equal(t, 0, conflictCount(false, false))
	assert.Equal(t, 2, conflictCount(true, false, true))
}

func TestCompletionCommand(t *testing.T) {
	chdirTemp(t)
	out, _, err := runCLI(t, "completion", "bash")
	assert.NoError(t, err)
	assert.Contains(t, out, "tzcal")

	_, _, err = runCLI(t, "completion", "tcsh")
	assert.Equal(t, 2, ExitCode(err))
}

func TestPipedFile(t *testing.T) {
	assert.False(t, pipedFile(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.True(t, pipedFile(f))
}
