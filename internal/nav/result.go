package nav

import (
	"fmt"
	"strings"
)

// Result describes the outcome of applying a command. It is never an error:
// callers decide which outcomes matter to the user.
//
// Result is sealed; see the variants below.
type Result interface {
	result()
	String() string
}

// Success reports that the command was applied.
type Success struct{}

// Cancelled reports that a middleware vetoed the command before it reached
// the engine.
type Cancelled struct{}

// ConditionNotMet reports that a conditional's predicate was false.
type ConditionNotMet struct{}

// StackEmpty reports a pop that had nothing, or not enough, to pop.
type StackEmpty struct{}

// RouteNotFound reports a popTo whose target is not on the stack.
type RouteNotFound[R comparable] struct {
	Route R
}

// Multiple aggregates the results of a sequence, one per step.
type Multiple struct {
	Results []Result
}

func (Success) result()          {}
func (Cancelled) result()        {}
func (ConditionNotMet) result()  {}
func (StackEmpty) result()       {}
func (RouteNotFound[R]) result() {}
func (Multiple) result()         {}

func (Success) String() string         { return "success" }
func (Cancelled) String() string       { return "cancelled" }
func (ConditionNotMet) String() string { return "conditionNotMet" }
func (StackEmpty) String() string      { return "stackEmpty" }

func (r RouteNotFound[R]) String() string {
	return fmt.Sprintf("routeNotFound(%v)", r.Route)
}

func (m Multiple) String() string {
	parts := make([]string, len(m.Results))
	for i, r := range m.Results {
		parts[i] = r.String()
	}
	return "multiple[" + strings.Join(parts, ",") + "]"
}

// IsSuccess reports whether r is Success, or a Multiple whose every element
// is (recursively) a success. An empty Multiple is a success.
func IsSuccess(r Result) bool {
	switch v := r.(type) {
	case Success:
		return true
	case Multiple:
		for _, child := range v.Results {
			if !IsSuccess(child) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
