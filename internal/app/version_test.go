package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildVersionString(t *testing.T) {
	SetBuildInfo("v1.2.3", "abc123", "2026-02-16T12:00:00Z")
	assert.Equal(t, "v1.2.3 (abc123) 2026-02-16T12:00:00Z", BuildVersionString())

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "tzcal v1.2.3 (abc123) 2026-02-16T12:00:00Z\n", out.String())
}
