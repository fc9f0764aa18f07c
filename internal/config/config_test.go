package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, used, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "", used)
	assert.Equal(t, Default(), *cfg)
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "format: json\nlog_level: warn\njournal: trace.db\nroutes: routes.cue\n")

	cfg, used, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, used)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "trace.db", cfg.Journal)
	assert.Equal(t, "routes.cue", cfg.Routes)
	assert.Equal(t, slog.LevelWarn, cfg.Level())
}

func TestLoad_WorkingDirectoryFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "verbose: true\n")
	t.Chdir(dir)

	cfg, used, err := Load("")
	require.NoError(t, err)

	assert.NotEmpty(t, used)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "journal: file.db\n")
	t.Setenv("NAVKIT_JOURNAL", "env.db")

	cfg, _, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env.db", cfg.Journal)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "config file not found")
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		want    string
	}{
		{"format", "format: xml\n", "invalid format"},
		{"level", "log_level: loud\n", "invalid log_level"},
		{"syntax", "format: [\n", "failed to read config"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tc.content)
			_, _, err := Load(path)
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestConfig_LevelFallsBackToInfo(t *testing.T) {
	cfg := &Config{LogLevel: "nonsense"}
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}
