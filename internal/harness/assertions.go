package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/navkit/internal/route"
	"github.com/roach88/navkit/internal/trace"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []trace.Event
}

func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			if event.Type == trace.EventDid {
				fmt.Fprintf(&buf, "  %s\n", event)
			}
		}
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d: %v", i, err))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		return assertTraceContains(result.Trace, a)
	case AssertTraceOrder:
		return assertTraceOrder(result.Trace, a)
	case AssertTraceCount:
		return assertTraceCount(result.Trace, a)
	case AssertFinalPath:
		return assertFinalPath(result, a)
	case AssertChangeCount:
		return assertChangeCount(result.Trace, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// completed returns the did events, one per primitive execution.
func completed(events []trace.Event) []trace.Event {
	var out []trace.Event
	for _, e := range events {
		if e.Type == trace.EventDid {
			out = append(out, e)
		}
	}
	return out
}

// assertTraceContains checks that some execution ran the command, and
// produced the given result when one is named.
func assertTraceContains(events []trace.Event, a Assertion) error {
	for _, e := range completed(events) {
		if e.Command == a.Command && (a.Result == "" || e.Result == a.Result) {
			return nil
		}
	}

	expected := a.Command
	if a.Result != "" {
		expected += " -> " + a.Result
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "not found in trace",
		Trace:    events,
	}
}

// assertTraceOrder checks that the commands executed in order. Other
// executions may appear in between.
func assertTraceOrder(events []trace.Event, a Assertion) error {
	next := 0
	for _, e := range completed(events) {
		if next < len(a.Commands) && e.Command == a.Commands[next] {
			next++
		}
	}
	if next == len(a.Commands) {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceOrder,
		Expected: fmt.Sprintf("commands in order: %v", a.Commands),
		Actual:   fmt.Sprintf("%s not found after %v", a.Commands[next], a.Commands[:next]),
		Trace:    events,
	}
}

func assertTraceCount(events []trace.Event, a Assertion) error {
	count := 0
	for _, e := range completed(events) {
		if e.Command == a.Command {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d executions of %s", a.Count, a.Command),
			Actual:   fmt.Sprintf("%d executions", count),
			Trace:    events,
		}
	}
	return nil
}

func assertFinalPath(result *Result, a Assertion) error {
	want := route.Strings(a.Path)
	if !slices.Equal(want, result.FinalPath) {
		return &AssertionError{
			Type:     AssertFinalPath,
			Expected: fmt.Sprintf("%v", want),
			Actual:   fmt.Sprintf("%v", result.FinalPath),
		}
	}
	return nil
}

func assertChangeCount(events []trace.Event, a Assertion) error {
	count := 0
	for _, e := range events {
		if e.Type == trace.EventChange {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertChangeCount,
			Expected: fmt.Sprintf("%d changes", a.Count),
			Actual:   fmt.Sprintf("%d changes", count),
			Trace:    events,
		}
	}
	return nil
}
