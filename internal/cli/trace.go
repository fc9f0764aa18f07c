package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/navkit/internal/journal"
	"github.com/roach88/navkit/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Journal   string
	Session   string
	Type      string // optional - filter to one event type
	Canonical bool   // emit canonical JSON lines
}

// TraceResult holds the events of one session.
type TraceResult struct {
	Session string        `json:"session"`
	Label   string        `json:"label"`
	Events  []trace.Event `json:"events"`
	Stats   TraceStats    `json:"stats"`
}

// TraceStats counts a session's events by type.
type TraceStats struct {
	Total     int `json:"total"`
	Will      int `json:"will"`
	Did       int `json:"did"`
	Change    int `json:"change"`
	Cancelled int `json:"cancelled"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect a recorded trace journal",
		Long: `Read navigation traces recorded by "navkit run --journal".

Without --session, lists the journal's sessions oldest first. With
--session, prints that session's events in sequence order.

Examples:
  navkit trace --journal ./navkit.db
  navkit trace --journal ./navkit.db --session 0192f0c1-...
  navkit trace --journal ./navkit.db --session 0192f0c1-... --type did
  navkit trace --journal ./navkit.db --session 0192f0c1-... --canonical`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runTrace(ctx, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "SQLite journal (default: journal from config)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session token to print")
	cmd.Flags().StringVar(&opts.Type, "type", "", "only events of this type (will|did|change)")
	cmd.Flags().BoolVar(&opts.Canonical, "canonical", false, "print events as canonical JSON lines")

	return cmd
}

func runTrace(ctx context.Context, opts *TraceOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	path := opts.Journal
	if path == "" {
		path = opts.config().Journal
	}
	if path == "" {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, "no journal given (use --journal or set journal in config)", nil)
	}
	// Open would create a missing file.
	if _, err := os.Stat(path); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("journal not found: %s", path), nil)
	}
	if opts.Type != "" && !trace.EventType(opts.Type).Valid() {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("invalid event type %q: must be will, did or change", opts.Type), nil)
	}

	j, err := journal.Open(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeJournal, err.Error(), nil)
	}
	defer j.Close()

	sessions, err := j.Sessions(ctx)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeJournal, err.Error(), nil)
	}

	if opts.Session == "" {
		return outputSessions(formatter, sessions)
	}

	var found *journal.Session
	for i := range sessions {
		if sessions[i].ID == opts.Session {
			found = &sessions[i]
			break
		}
	}
	if found == nil {
		return formatter.Fail(ExitCommandError, ErrCodeUnknownSession, fmt.Sprintf("session not found: %s", opts.Session), nil)
	}

	events, err := j.ReadSession(ctx, opts.Session)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeJournal, err.Error(), nil)
	}

	result := TraceResult{
		Session: found.ID,
		Label:   found.Label,
		Events:  filterEvents(events, trace.EventType(opts.Type)),
		Stats:   countEvents(events),
	}

	if opts.Canonical {
		data, err := trace.MarshalLines(result.Events)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to render events", err)
		}
		_, err = formatter.Writer.Write(data)
		return err
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	return outputTraceText(formatter, result)
}

func filterEvents(events []trace.Event, typ trace.EventType) []trace.Event {
	if typ == "" {
		return events
	}
	out := []trace.Event{}
	for _, e := range events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func countEvents(events []trace.Event) TraceStats {
	stats := TraceStats{Total: len(events)}
	for _, e := range events {
		switch e.Type {
		case trace.EventWill:
			stats.Will++
		case trace.EventDid:
			stats.Did++
			if e.Result == "cancelled" {
				stats.Cancelled++
			}
		case trace.EventChange:
			stats.Change++
		}
	}
	return stats
}

func outputSessions(formatter *OutputFormatter, sessions []journal.Session) error {
	if formatter.JSON() {
		return formatter.Success(sessions)
	}

	w := formatter.Writer
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions recorded.")
		return nil
	}
	for _, s := range sessions {
		fmt.Fprintf(w, "%s  %-24s %d events\n", s.ID, s.Label, s.Events)
	}
	return nil
}

func outputTraceText(formatter *OutputFormatter, result TraceResult) error {
	w := formatter.Writer

	fmt.Fprintf(w, "Session: %s (%s)\n", result.Session, result.Label)
	fmt.Fprintln(w)
	for _, e := range result.Events {
		fmt.Fprintf(w, "  %s\n", e)
	}
	fmt.Fprintln(w)
	s := result.Stats
	fmt.Fprintf(w, "%d events: %d will, %d did (%d cancelled), %d change\n", s.Total, s.Will, s.Did, s.Cancelled, s.Change)
	return nil
}
