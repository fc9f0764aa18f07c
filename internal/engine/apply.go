package engine

import (
	"fmt"
	"slices"

	"github.com/roach88/navkit/internal/nav"
)

// Apply computes the stack that results from applying cmd to s.
//
// The input stack is never modified. For a failing command the returned
// stack equals s.
func Apply[R comparable](cmd nav.Command[R], s nav.Stack[R]) (nav.Stack[R], nav.Result) {
	path := s.Path()

	switch c := cmd.(type) {
	case nav.PushCommand[R]:
		return nav.NewStack(append(path, c.Route)...), nav.Success{}

	case nav.PushAllCommand[R]:
		return nav.NewStack(append(path, c.Routes...)...), nav.Success{}

	case nav.PopCommand[R]:
		if len(path) == 0 {
			return s, nav.StackEmpty{}
		}
		return nav.NewStack(path[:len(path)-1]...), nav.Success{}

	case nav.PopCountCommand[R]:
		if c.Count <= 0 || c.Count > len(path) {
			return s, nav.StackEmpty{}
		}
		return nav.NewStack(path[:len(path)-c.Count]...), nav.Success{}

	case nav.PopToRootCommand[R]:
		return nav.NewStack[R](), nav.Success{}

	case nav.PopToCommand[R]:
		idx := slices.Index(path, c.Route)
		if idx < 0 {
			return s, nav.RouteNotFound[R]{Route: c.Route}
		}
		return nav.NewStack(path[:idx+1]...), nav.Success{}

	case nav.ReplaceCommand[R]:
		return nav.NewStack(c.Routes...), nav.Success{}

	case nav.ConditionalCommand[R]:
		if c.Predicate == nil || !c.Predicate() {
			return s, nav.ConditionNotMet{}
		}
		return Apply(c.Command, s)

	case nav.SequenceCommand[R]:
		return applySequence(c.Commands, s)

	default:
		panic(fmt.Sprintf("engine: unknown command %T", cmd))
	}
}

// applySequence threads the stack through every step and collects one
// result per step.
func applySequence[R comparable](cmds []nav.Command[R], s nav.Stack[R]) (nav.Stack[R], nav.Result) {
	results := make([]nav.Result, 0, len(cmds))
	current := s
	for _, cmd := range cmds {
		var r nav.Result
		current, r = Apply(cmd, current)
		results = append(results, r)
	}
	return current, nav.Multiple{Results: results}
}
