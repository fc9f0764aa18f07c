package nav

import (
	"fmt"
	"slices"
	"strings"
)

// Stack is an ordered sequence of routes. The last element is the top.
//
// Equality is elementwise and order-sensitive.
type Stack[R comparable] struct {
	path []R
}

// NewStack creates a stack holding a copy of path.
func NewStack[R comparable](path ...R) Stack[R] {
	return Stack[R]{path: slices.Clone(path)}
}

// Path returns a copy of the routes, bottom first.
func (s Stack[R]) Path() []R {
	if len(s.path) == 0 {
		return []R{}
	}
	return slices.Clone(s.path)
}

// Len returns the number of routes on the stack.
func (s Stack[R]) Len() int {
	return len(s.path)
}

// IsEmpty reports whether the stack holds no routes.
func (s Stack[R]) IsEmpty() bool {
	return len(s.path) == 0
}

// Top returns the most recently pushed route.
func (s Stack[R]) Top() (R, bool) {
	if len(s.path) == 0 {
		var zero R
		return zero, false
	}
	return s.path[len(s.path)-1], true
}

// Equal reports whether both stacks hold the same routes in the same order.
func (s Stack[R]) Equal(other Stack[R]) bool {
	return slices.Equal(s.path, other.path)
}

// String renders the stack as "[a b c]".
func (s Stack[R]) String() string {
	parts := make([]string, len(s.path))
	for i, r := range s.path {
		parts[i] = fmt.Sprint(r)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
