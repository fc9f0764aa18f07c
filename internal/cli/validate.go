package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/navkit/internal/compiler"
)

// ValidationError is one route table problem.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// RouteSummary describes one compiled mapping.
type RouteSummary struct {
	Pattern string `json:"pattern"`
	Route   string `json:"route"`
	Param   string `json:"param,omitempty"`
	Auth    bool   `json:"auth,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool              `json:"valid"`
	Schemes []string          `json:"schemes,omitempty"`
	Hosts   []string          `json:"hosts,omitempty"`
	Routes  []RouteSummary    `json:"routes,omitempty"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [routes.cue]",
		Short: "Validate a CUE route table",
		Long: `Compile a CUE route table and report the first problem found.

Checks CUE syntax, the deeplink block shape, that every pattern compiles
and that route names are usable. A directory is loaded as a CUE package.

Exit codes:
  0 - Route table is valid
  1 - Route table is invalid
  2 - Route table not found`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runValidate(rootOpts, path, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if path == "" {
		path = opts.config().Routes
	}

	table, err := LoadRoutes(path)
	if err != nil {
		var loadErr *LoadError
		if !errors.As(err, &loadErr) || loadErr.Code == ErrCodeNotFound {
			return failLoad(formatter, ExitCommandError, err)
		}
		return outputValidationError(formatter, loadErr)
	}

	formatter.VerboseLog("compiled %d route(s) from %s", len(table.Routes), path)
	return outputValidateSuccess(formatter, table)
}

func summarize(table *compiler.RouteTable) ValidationResult {
	result := ValidationResult{
		Valid:   true,
		Schemes: table.Schemes,
		Hosts:   table.Hosts,
		Routes:  make([]RouteSummary, 0, len(table.Routes)),
	}
	for _, spec := range table.Routes {
		result.Routes = append(result.Routes, RouteSummary{
			Pattern: spec.Pattern,
			Route:   spec.Route,
			Param:   spec.Param,
			Auth:    spec.Auth,
		})
	}
	return result
}

func outputValidateSuccess(formatter *OutputFormatter, table *compiler.RouteTable) error {
	result := summarize(table)
	if formatter.JSON() {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Route table valid: %d route(s)\n", len(result.Routes))
	if formatter.Verbose {
		printRoutes(formatter.Writer, result.Routes)
	}
	return nil
}

func printRoutes(w io.Writer, routes []RouteSummary) {
	for _, r := range routes {
		line := fmt.Sprintf("  %-28s -> %s", r.Pattern, r.Route)
		if r.Param != "" {
			line += " (" + r.Param + ")"
		}
		if r.Auth {
			line += " [auth]"
		}
		fmt.Fprintln(w, line)
	}
}

// outputValidationError reports an invalid table. Validation failures exit 1.
func outputValidationError(formatter *OutputFormatter, loadErr *LoadError) error {
	verr := ValidationError{
		Code:    loadErr.Code,
		Message: loadErr.Message,
		Line:    loadErr.Line(),
	}
	msg := fmt.Sprintf("validation failed: %s", verr.Code)

	if formatter.JSON() {
		result := ValidationResult{Valid: false, Errors: []ValidationError{verr}}
		if err := formatter.Failure(result, verr.Code, verr.Message); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	if verr.Line > 0 {
		fmt.Fprintf(formatter.Writer, "line %d\n", verr.Line)
	}
	fmt.Fprintf(formatter.Writer, "  %s: %s\n", verr.Code, verr.Message)

	return NewExitError(ExitFailure, msg)
}
