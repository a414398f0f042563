package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves into a fresh directory that is also HOME.
func chdirTemp(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	tmp := t.TempDir()
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("TZCAL_TIMEZONE", "")
	t.Setenv("TZCAL_OUTPUT", "")
	t.Setenv("TZCAL_FIELDS", "")
	t.Setenv("TZCAL_PROFILE", "")
	t.Setenv("TZCAL_CONFIG", "")
	t.Setenv("TZCAL_LOG_LEVEL", "")
	return tmp
}

func TestResolveGlobalOptionsPrecedence(t *testing.T) {
	tmp := chdirTemp(t)
	t.Setenv("TZCAL_TIMEZONE", "Europe/Paris")
	t.Setenv("TZCAL_OUTPUT", "jsonl")

	userCfg := filepath.Join(tmp, ".config", "tzcal", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(userCfg), 0o755))
	require.NoError(t, os.WriteFile(userCfg, []byte("tz='Asia/Tokyo'\noutput='plain'\nlog_level='info'\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".tzcal.toml"), []byte("tz='Europe/Berlin'\nfields='subject,start'\n"), 0o644))

	defaults := &globalOptions{Profile: "default", SchemaVersion: "v1"}
	cmd := newTestCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--tz", "America/Chicago", "--json"}))
	defaults.TZ = "America/Chicago"
	defaults.JSON = true

	resolved, err := resolveGlobalOptions(cmd, defaults)
	require.NoError(t, err)
	assert.Equal(t, "America/Chicago", resolved.TZ)
	assert.True(t, resolved.JSON)
	assert.False(t, resolved.JSONL)
	assert.False(t, resolved.Plain)
	assert.Equal(t, "subject,start", resolved.Fields)
	assert.Equal(t, "info", resolved.LogLevel)
}

func TestResolveGlobalOptionsEnvOverridesFiles(t *testing.T) {
	tmp := chdirTemp(t)
	t.Setenv("TZCAL_TIMEZONE", "Europe/Paris")
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".tzcal.toml"), []byte("tz='Europe/Berlin'\n"), 0o644))

	resolved, err := resolveGlobalOptions(newTestCmd(), &globalOptions{Profile: "default"})
	require.NoError(t, err)
	assert.Equal(t, "Europe/Paris", resolved.TZ)
}

func TestResolveGlobalOptionsProfile(t *testing.T) {
	tmp := chdirTemp(t)
	t.Setenv("TZCAL_PROFILE", "work")

	cfg := "tz='UTC'\n[profiles.work]\ntz='America/New_York'\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".tzcal.toml"), []byte(cfg), 0o644))

	resolved, err := resolveGlobalOptions(newTestCmd(), &globalOptions{Profile: "default", SchemaVersion: "v1"})
	require.NoError(t, err)
	assert.Equal(t, "work", resolved.Profile)
	assert.Equal(t, "America/New_York", resolved.TZ)
}

func TestResolveGlobalOptionsExplicitConfig(t *testing.T) {
	tmp := chdirTemp(t)
	path := filepath.Join(tmp, "alt.toml")
	require.NoError(t, os.WriteFile(path, []byte("output='json'\n"), 0o644))

	cmd := newTestCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path}))
	resolved, err := resolveGlobalOptions(cmd, &globalOptions{Profile: "default", Config: path})
	require.NoError(t, err)
	assert.True(t, resolved.JSON)
	assert.Equal(t, path, resolved.Config)
}

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Bool("json", false, "")
	cmd.Flags().Bool("jsonl", false, "")
	cmd.Flags().Bool("plain", false, "")
	cmd.Flags().String("fields", "", "")
	cmd.Flags().Bool("quiet", false, "")
	cmd.Flags().Bool("verbose", false, "")
	cmd.Flags().String("profile", "default", "")
	cmd.Flags().String("config", "", "")
	cmd.Flags().String("tz", "", "")
	cmd.Flags().String("schema-version", "v1", "")
	return cmd
}
