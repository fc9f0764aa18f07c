package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/navkit/internal/deeplink"
	"github.com/roach88/navkit/internal/nav"
	"github.com/roach88/navkit/internal/route"
)

// ResolveOptions holds flags for the resolve command.
type ResolveOptions struct {
	*RootOptions
	Authenticated bool
	Strict        bool // rejected or unhandled URLs exit 1
}

// ResolveResult is the decision for one URL.
type ResolveResult struct {
	URL      string   `json:"url"`
	Decision string   `json:"decision"` // rejected | unhandled | pending | plan
	Reason   string   `json:"reason,omitempty"`
	Route    string   `json:"route,omitempty"`
	Commands []string `json:"commands,omitempty"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "resolve [routes.cue] <url>",
		Short: "Decide what a deep link would do",
		Long: `Run a URL through the deep-link pipeline built from a CUE route table
and print the decision: rejected (with reason), unhandled, pending (the
route needs sign in) or plan (the commands to execute).

The route table argument may be omitted when routes is set in config.

Examples:
  navkit resolve ./routes.cue "myapp://example.com/products/42"
  navkit resolve ./routes.cue "myapp://example.com/settings" --authenticated
  navkit resolve "https://example.com/docs/a/b" --strict`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			routes, raw := "", args[len(args)-1]
			if len(args) == 2 {
				routes = args[0]
			}
			return runResolve(opts, routes, raw, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Authenticated, "authenticated", false, "treat the user as signed in")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "exit 1 when the URL is rejected or unhandled")

	return cmd
}

func runResolve(opts *ResolveOptions, routesPath, raw string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if routesPath == "" {
		routesPath = opts.config().Routes
	}

	table, err := LoadRoutes(routesPath)
	if err != nil {
		return failLoad(formatter, ExitCommandError, err)
	}
	formatter.VerboseLog("loaded %d route(s) from %s", len(table.Routes), routesPath)

	pipeline, err := table.Pipeline(
		func() bool { return opts.Authenticated },
		deeplink.WithLogger[route.Ref](opts.logger()),
	)
	if err != nil {
		return failLoad(formatter, ExitCommandError, err)
	}

	result := describeDecision(raw, pipeline.DecideString(raw))

	if formatter.JSON() {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		outputResolveText(formatter.Writer, result)
	}

	if opts.Strict && (result.Decision == "rejected" || result.Decision == "unhandled") {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", result.Decision, raw))
	}
	return nil
}

// describeDecision flattens a decision for output.
func describeDecision(raw string, d deeplink.Decision[route.Ref]) ResolveResult {
	result := ResolveResult{URL: raw}

	switch d := d.(type) {
	case deeplink.Rejected[route.Ref]:
		result.Decision = "rejected"
		result.Reason = string(d.Reason)
	case deeplink.Unhandled[route.Ref]:
		result.Decision = "unhandled"
	case deeplink.Pending[route.Ref]:
		result.Decision = "pending"
		result.Route = d.Nav.Route.String()
	case deeplink.Plan[route.Ref]:
		result.Decision = "plan"
		result.Commands = make([]string, 0, len(d.Plan.Commands))
		for _, c := range d.Plan.Commands {
			result.Commands = append(result.Commands, nav.Describe(c))
		}
	default:
		result.Decision = d.String()
	}

	return result
}

func outputResolveText(w io.Writer, r ResolveResult) {
	switch r.Decision {
	case "rejected":
		fmt.Fprintf(w, "rejected (%s): %s\n", r.Reason, r.URL)
	case "pending":
		fmt.Fprintf(w, "pending: %s requires sign in\n", r.Route)
	case "plan":
		fmt.Fprintf(w, "plan: %s\n", strings.Join(r.Commands, ", "))
	default:
		fmt.Fprintf(w, "%s: %s\n", r.Decision, r.URL)
	}
}

// failLoad reports a route table error with its code.
func failLoad(formatter *OutputFormatter, exitCode int, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		var details any
		if line := loadErr.Line(); line > 0 {
			details = map[string]int{"line": line}
		}
		return formatter.Fail(exitCode, loadErr.Code, loadErr.Message, details)
	}
	return formatter.Fail(exitCode, ErrCodeGeneric, err.Error(), nil)
}
