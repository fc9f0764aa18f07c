package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/navkit/internal/journal"
	"github.com/roach88/navkit/internal/testutil"
)

// recordJournal runs the given scenarios into a fresh journal with
// sequential session tokens trace-0001, trace-0002, ...
func recordJournal(t *testing.T, scenarios ...string) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "navkit.db")
	tokens := testutil.NewSequenceTokens("trace")

	for _, name := range scenarios {
		cmd := newRunCommand(&RunOptions{
			RootOptions: &RootOptions{Format: "text"},
			Tokens:      tokens,
		})
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{filepath.Join("testdata", "scenarios", name), "--journal", dbPath})
		require.NoError(t, cmd.Execute())
	}
	return dbPath
}

func TestTraceListSessions(t *testing.T) {
	dbPath := recordJournal(t, "checkout.yaml", "guarded_back.yaml")

	buf := &bytes.Buffer{}
	cmd := NewTraceCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--journal", dbPath})

	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "trace-0001  checkout"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "trace-0002  guarded_back"), lines[1])
}

func TestTraceListSessionsJSON(t *testing.T) {
	dbPath := recordJournal(t, "guarded_back.yaml")

	buf := &bytes.Buffer{}
	cmd := NewTraceCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--journal", dbPath})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	sessions := resp.Data.([]any)
	require.Len(t, sessions, 1)
	s := sessions[0].(map[string]any)
	assert.Equal(t, "trace-0001", s["id"])
	assert.Equal(t, "guarded_back", s["label"])
	// will + did(cancelled)
	assert.Equal(t, float64(2), s["events"])
}

func TestTraceEmptyJournal(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "navkit.db")
	j, err := journal.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	buf := &bytes.Buffer{}
	cmd := NewTraceCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--journal", dbPath})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "No sessions recorded.\n", buf.String())
}

func TestTraceSessionText(t *testing.T) {
	dbPath := recordJournal(t, "guarded_back.yaml")

	buf := &bytes.Buffer{}
	cmd := NewTraceCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--journal", dbPath, "--session", "trace-0001"})

	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "Session: trace-0001 (guarded_back)")
	assert.Contains(t, out, "#1 will pop [home settings]")
	assert.Contains(t, out, "#2 did pop -> cancelled [home settings]")
	assert.Contains(t, out, "2 events: 1 will, 1 did (1 cancelled), 0 change")
}

func TestTraceSessionJSONWithTypeFilter(t *testing.T) {
	dbPath := recordJournal(t, "checkout.yaml")

	buf := &bytes.Buffer{}
	cmd := NewTraceCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--journal", dbPath, "--session", "trace-0001", "--type", "did"})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string      `json:"status"`
		Data   TraceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "checkout", resp.Data.Label)

	commands := make([]string, 0, len(resp.Data.Events))
	for _, e := range resp.Data.Events {
		assert.Equal(t, "did", string(e.Type))
		commands = append(commands, e.Command)
	}
	assert.Equal(t, []string{"push(product:3)", "push(cart)", "pop"}, commands)

	// Stats count the whole session, not the filtered view.
	assert.Equal(t, 3, resp.Data.Stats.Did)
	assert.Equal(t, 3, resp.Data.Stats.Will)
	assert.Equal(t, 3, resp.Data.Stats.Change)
	assert.Equal(t, 9, resp.Data.Stats.Total)
}

func TestTraceCanonical(t *testing.T) {
	dbPath := recordJournal(t, "guarded_back.yaml")

	buf := &bytes.Buffer{}
	cmd := NewTraceCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--journal", dbPath, "--session", "trace-0001", "--canonical"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t,
		`{"command":"pop","path":["home","settings"],"seq":1,"type":"will"}`+"\n"+
			`{"command":"pop","path":["home","settings"],"result":"cancelled","seq":2,"type":"did"}`+"\n",
		buf.String())
}

func TestTraceErrors(t *testing.T) {
	dbPath := recordJournal(t, "guarded_back.yaml")

	tests := []struct {
		name     string
		args     []string
		wantCode string
	}{
		{"no journal", []string{}, ErrCodeNotFound},
		{"missing journal", []string{"--journal", "/nonexistent/navkit.db"}, ErrCodeNotFound},
		{"unknown session", []string{"--journal", dbPath, "--session", "nope"}, ErrCodeUnknownSession},
		{"bad type", []string{"--journal", dbPath, "--type", "maybe"}, ErrCodeGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			cmd := NewTraceCommand(&RootOptions{Format: "json"})
			cmd.SetOut(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			var resp CLIResponse
			require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestTraceRejectsArgs(t *testing.T) {
	cmd := NewTraceCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"extra"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}
