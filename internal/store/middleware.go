package store

import (
	"log/slog"

	"github.com/roach88/navkit/internal/nav"
)

// Middleware wraps the execution of one primitive command.
//
// WillExecute may pass the command through, return a different command, or
// veto by returning ok=false. Returning a nil command with ok=true passes
// the incoming command through unchanged. DidExecute is for side effects
// only.
type Middleware[R comparable] interface {
	WillExecute(cmd nav.Command[R], before nav.Stack[R]) (next nav.Command[R], ok bool)
	DidExecute(cmd nav.Command[R], result nav.Result, after nav.Stack[R])
}

// MiddlewareFuncs adapts a pair of functions to Middleware.
// A nil Will passes commands through; a nil Did does nothing.
type MiddlewareFuncs[R comparable] struct {
	Will func(cmd nav.Command[R], before nav.Stack[R]) (nav.Command[R], bool)
	Did  func(cmd nav.Command[R], result nav.Result, after nav.Stack[R])
}

// WillExecute implements Middleware.
func (m MiddlewareFuncs[R]) WillExecute(cmd nav.Command[R], before nav.Stack[R]) (nav.Command[R], bool) {
	if m.Will == nil {
		return cmd, true
	}
	return m.Will(cmd, before)
}

// DidExecute implements Middleware.
func (m MiddlewareFuncs[R]) DidExecute(cmd nav.Command[R], result nav.Result, after nav.Stack[R]) {
	if m.Did != nil {
		m.Did(cmd, result, after)
	}
}

// Guard returns a middleware that vetoes every command deny reports true for.
func Guard[R comparable](deny func(cmd nav.Command[R], before nav.Stack[R]) bool) Middleware[R] {
	return MiddlewareFuncs[R]{
		Will: func(cmd nav.Command[R], before nav.Stack[R]) (nav.Command[R], bool) {
			if deny(cmd, before) {
				return nil, false
			}
			return cmd, true
		},
	}
}

// Logging returns a middleware that logs each command and its outcome at
// debug level.
func Logging[R comparable](logger *slog.Logger) Middleware[R] {
	if logger == nil {
		logger = slog.Default()
	}
	return MiddlewareFuncs[R]{
		Will: func(cmd nav.Command[R], before nav.Stack[R]) (nav.Command[R], bool) {
			logger.Debug("executing command", "kind", nav.Kind(cmd), "depth", before.Len())
			return cmd, true
		},
		Did: func(cmd nav.Command[R], result nav.Result, after nav.Stack[R]) {
			logger.Debug("command executed",
				"kind", nav.Kind(cmd),
				"result", result.String(),
				"depth", after.Len(),
			)
		},
	}
}
