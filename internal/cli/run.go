package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/navkit/internal/harness"
	"github.com/roach88/navkit/internal/journal"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Journal string
	Label   string

	// Tokens overrides the journal session token generator (for testing).
	// If nil, the journal default (UUIDv7) is used.
	Tokens journal.TokenGenerator
}

// RunResult is the output of a single scenario run.
type RunResult struct {
	Scenario  string               `json:"scenario"`
	Session   string               `json:"session,omitempty"`
	Pass      bool                 `json:"pass"`
	Steps     []harness.StepResult `json:"steps"`
	FinalPath []string             `json:"final_path"`
	Events    int                  `json:"events"`
	Errors    []string             `json:"errors,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario>",
		Short: "Run one scenario and print its steps",
		Long: `Run a single navigation scenario and print each step's outcome.

With --journal (or journal in config) every trace event is appended to a
SQLite journal under a new session, which "navkit trace" can read back.

Examples:
  navkit run ./scenarios/checkout.yaml
  navkit run ./scenarios/checkout.yaml --journal ./navkit.db
  navkit run ./scenarios/checkout.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOne(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "SQLite journal to record the trace in")
	cmd.Flags().StringVar(&opts.Label, "label", "", "session label (default: scenario name)")

	return cmd
}

func runOne(ctx context.Context, opts *RunOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)
	logger := opts.logger()

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeScenario, err.Error(), nil)
	}

	hopts := []harness.Option{harness.WithLogger(logger)}

	journalPath := opts.Journal
	if journalPath == "" {
		journalPath = opts.config().Journal
	}

	var session string
	if journalPath != "" {
		var jopts []journal.Option
		if opts.Tokens != nil {
			jopts = append(jopts, journal.WithTokenGenerator(opts.Tokens))
		}
		j, err := journal.Open(journalPath, jopts...)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeJournal, err.Error(), nil)
		}
		defer j.Close()

		label := opts.Label
		if label == "" {
			label = scenario.Name
		}
		session, err = j.NewSession(ctx, label)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeJournal, err.Error(), nil)
		}
		logger.Debug("journal session started", "journal", journalPath, "session", session)
		hopts = append(hopts, harness.WithSink(journal.NewSink(j, session, logger)))
	}

	result, err := harness.Run(scenario, hopts...)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeScenario, err.Error(), nil)
	}

	out := RunResult{
		Scenario:  scenario.Name,
		Session:   session,
		Pass:      result.Pass,
		Steps:     result.Steps,
		FinalPath: result.FinalPath,
		Events:    len(result.Trace),
		Errors:    result.Errors,
	}

	if formatter.JSON() {
		if !out.Pass {
			msg := fmt.Sprintf("scenario %q failed", out.Scenario)
			if err := formatter.Failure(out, "E_SCENARIO_FAILED", msg); err != nil {
				return err
			}
			return NewExitError(ExitFailure, msg)
		}
		return formatter.Success(out)
	}

	return outputRunText(formatter.Writer, out)
}

func outputRunText(w io.Writer, out RunResult) error {
	fmt.Fprintf(w, "Scenario: %s\n", out.Scenario)
	if out.Session != "" {
		fmt.Fprintf(w, "Session:  %s\n", out.Session)
	}
	fmt.Fprintln(w)

	for _, step := range out.Steps {
		outcome := step.Result
		if step.Decision != "" {
			if outcome != "" {
				outcome = step.Decision + " -> " + outcome
			} else {
				outcome = step.Decision
			}
		}
		fmt.Fprintf(w, "  %2d  %-32s %-24s [%s]\n", step.Index, step.Action, outcome, strings.Join(step.Path, " "))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Final path: [%s] (%d events)\n", strings.Join(out.FinalPath, " "), out.Events)

	if !out.Pass {
		fmt.Fprintln(w, "✗ Scenario failed")
		for _, e := range out.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %q failed", out.Scenario))
	}

	fmt.Fprintln(w, "✓ Scenario passed")
	return nil
}
