package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// copyFixtures copies the named testdata files into a fresh directory laid
// out like testdata, so golden files can be written without touching the
// repository.
func copyFixtures(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join("testdata", name))
		require.NoError(t, err)
		dst := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0755))
		require.NoError(t, os.WriteFile(dst, data, 0644))
	}
	return dir
}

const failingScenario = `name: wrong_path
initial: [home]
steps:
  - command: {push: detail}
    expect:
      path: [home]
`

func TestTestCommandMissingArgs(t *testing.T) {
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentDir(t *testing.T) {
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"/nonexistent/scenarios"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenarios directory not found")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandEmptyDir(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		buf := &bytes.Buffer{}
		cmd := NewTestCommand(&RootOptions{Format: "text"})
		cmd.SetOut(buf)
		cmd.SetArgs([]string{t.TempDir()})

		require.NoError(t, cmd.Execute())
		assert.Contains(t, buf.String(), "No scenarios found")
	})

	t.Run("json", func(t *testing.T) {
		buf := &bytes.Buffer{}
		cmd := NewTestCommand(&RootOptions{Format: "json"})
		cmd.SetOut(buf)
		cmd.SetArgs([]string{t.TempDir()})

		require.NoError(t, cmd.Execute())

		var response CLIResponse
		require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
		assert.Equal(t, "ok", response.Status)
	})
}

func TestTestCommandPassingScenarios(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "scenarios")})

	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "✓ checkout")
	assert.Contains(t, out, "✓ guarded_back")
	assert.Contains(t, out, "Test Summary: 2 passed, 0 failed, 2 total")
}

func TestTestCommandFailingScenario(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wrong.yaml"), []byte(failingScenario), 0644))

	t.Run("text", func(t *testing.T) {
		buf := &bytes.Buffer{}
		cmd := NewTestCommand(&RootOptions{Format: "text"})
		cmd.SetOut(buf)
		cmd.SetArgs([]string{dir})

		err := cmd.Execute()
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.Contains(t, buf.String(), "✗ wrong_path")
		assert.Contains(t, buf.String(), "1 failed")
	})

	t.Run("json", func(t *testing.T) {
		buf := &bytes.Buffer{}
		cmd := NewTestCommand(&RootOptions{Format: "json"})
		cmd.SetOut(buf)
		cmd.SetArgs([]string{dir})

		err := cmd.Execute()
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))

		var response CLIResponse
		require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
		assert.Equal(t, "error", response.Status)
		require.NotNil(t, response.Error)
		assert.Equal(t, "E_TEST_FAILED", response.Error.Code)

		data := response.Data.(map[string]any)
		assert.Equal(t, float64(1), data["failed"])
	})
}

func TestTestCommandInvalidScenarioFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: [unclosed\n"), 0644))

	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, buf.String(), "✗ broken.yaml")
	assert.Contains(t, buf.String(), "failed to load scenario")
}

func TestTestCommandGoldenUpdateThenMatch(t *testing.T) {
	dir := copyFixtures(t, "routes.cue", "scenarios/checkout.yaml")
	scenarios := filepath.Join(dir, "scenarios")

	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{scenarios, "--update"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "✓ checkout (golden updated)")

	golden, err := os.ReadFile(filepath.Join(scenarios, "golden", "checkout.golden"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(golden), "\n"), "\n")
	assert.Equal(t, `{"final_path":["home","product:3"],"scenario":"checkout"}`, lines[0])

	buf.Reset()
	cmd = NewTestCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{scenarios})
	require.NoError(t, cmd.Execute())

	var response CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	data := response.Data.(map[string]any)
	first := data["scenarios"].([]any)[0].(map[string]any)
	assert.Equal(t, "match", first["golden"])
}

func TestTestCommandGoldenMismatch(t *testing.T) {
	dir := copyFixtures(t, "scenarios/guarded_back.yaml")
	scenarios := filepath.Join(dir, "scenarios")
	require.NoError(t, os.MkdirAll(filepath.Join(scenarios, "golden"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(scenarios, "golden", "guarded_back.golden"), []byte("stale\n"), 0644))

	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{scenarios})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, buf.String(), "does not match golden file")
}

func TestTestHelpText(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "navigation scenario")
	assert.Contains(t, output, "--update")
	assert.Contains(t, output, "--filter")
	assert.Contains(t, output, "scenarios-dir")
}

func TestFindScenarioFiles(t *testing.T) {
	tmpDir := t.TempDir()
	golden := filepath.Join(tmpDir, "golden")
	require.NoError(t, os.MkdirAll(golden, 0755))

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "test1.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "test2.yml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "ignore.txt"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(golden, "skipped.yaml"), []byte(""), 0644))

	files, err := findScenarioFiles(tmpDir, "")
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestFindScenarioFilesWithFilter(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "auth-pending.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "auth-resume.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "stack-pop.yaml"), []byte(""), 0644))

	files, err := findScenarioFiles(tmpDir, "auth-*")
	require.NoError(t, err)
	assert.Len(t, files, 2)
	for _, f := range files {
		assert.True(t, strings.HasPrefix(filepath.Base(f), "auth-"), f)
	}

	_, err = findScenarioFiles(tmpDir, "[")
	require.Error(t, err)
}

func TestFindScenarioFilesSubdirectories(t *testing.T) {
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "subdir")
	require.NoError(t, os.MkdirAll(subDir, 0755))

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "root.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(subDir, "sub.yaml"), []byte(""), 0644))

	files, err := findScenarioFiles(tmpDir, "")
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestGoldenFilePath(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"/path/to/scenario.yaml", "/path/to/golden/scenario.golden"},
		{"/path/to/scenario.yml", "/path/to/golden/scenario.golden"},
		{"scenarios/test.yaml", "scenarios/golden/test.golden"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, goldenFilePath(tc.input))
	}
}
