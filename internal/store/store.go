package store

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/roach88/navkit/internal/engine"
	"github.com/roach88/navkit/internal/nav"
)

// ChangeHandler is called once for every primitive execution that changes
// the path, with the states before and after.
type ChangeHandler[R comparable] func(before, after nav.Stack[R])

// Store is the navigation orchestrator for one route type.
//
// Thread-safety model:
//   - Execute, SyncPath, Use: call from the owning goroutine only
//   - Path, Stack, Depth: safe from any goroutine
type Store[R comparable] struct {
	mu         sync.Mutex
	stack      nav.Stack[R]
	middleware []Middleware[R]
	onChange   ChangeHandler[R]
	logger     *slog.Logger
}

// Option configures a Store.
type Option[R comparable] func(*Store[R])

// WithInitialPath seeds the stack.
func WithInitialPath[R comparable](path ...R) Option[R] {
	return func(s *Store[R]) {
		s.stack = nav.NewStack(path...)
	}
}

// WithMiddleware appends middlewares in the given order.
func WithMiddleware[R comparable](mws ...Middleware[R]) Option[R] {
	return func(s *Store[R]) {
		s.middleware = append(s.middleware, mws...)
	}
}

// WithChangeHandler sets the change handler.
func WithChangeHandler[R comparable](fn ChangeHandler[R]) Option[R] {
	return func(s *Store[R]) {
		s.onChange = fn
	}
}

// WithLogger sets the logger used for debug output.
// Default: slog.Default(). A nil logger keeps the default.
func WithLogger[R comparable](logger *slog.Logger) Option[R] {
	return func(s *Store[R]) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Store. Without WithInitialPath the stack starts empty.
func New[R comparable](opts ...Option[R]) *Store[R] {
	s := &Store[R]{
		stack:  nav.NewStack[R](),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Use appends a middleware. Register middleware before issuing commands.
func (s *Store[R]) Use(mw Middleware[R]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.middleware = append(s.middleware, mw)
}

// OnChange replaces the change handler. Pass nil to remove it.
func (s *Store[R]) OnChange(fn ChangeHandler[R]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Stack returns the current stack.
func (s *Store[R]) Stack() nav.Stack[R] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack
}

// Path returns a copy of the current path, bottom first.
func (s *Store[R]) Path() []R {
	return s.Stack().Path()
}

// Depth returns the number of routes on the stack.
func (s *Store[R]) Depth() int {
	return s.Stack().Len()
}

// SyncPath is the renderer's write path: when the host changes the path on
// its own (a back gesture), it reports the new path here. Equivalent to
// Execute(Replace(path...)), so middleware sees it and an identical path
// does not fire the change handler.
func (s *Store[R]) SyncPath(path []R) nav.Result {
	return s.Execute(nav.Replace(path...))
}

// Execute runs cmd and returns its outcome. See the package documentation
// for the full algorithm.
func (s *Store[R]) Execute(cmd nav.Command[R]) nav.Result {
	switch c := cmd.(type) {
	case nav.ConditionalCommand[R]:
		if c.Predicate == nil || !c.Predicate() {
			return nav.ConditionNotMet{}
		}
		return s.Execute(c.Command)

	case nav.SequenceCommand[R]:
		results := make([]nav.Result, 0, len(c.Commands))
		for _, sub := range c.Commands {
			results = append(results, s.Execute(sub))
		}
		return nav.Multiple{Results: results}
	}

	return s.executePrimitive(cmd)
}

// executePrimitive runs the middleware chain around one engine application.
func (s *Store[R]) executePrimitive(cmd nav.Command[R]) nav.Result {
	before, chain := s.snapshot()

	current := cmd
	for i, mw := range chain {
		next, ok := mw.WillExecute(current, before)
		if !ok {
			s.logger.Debug("command cancelled", "kind", nav.Kind(cmd), "middleware", i)
			at := s.Stack()
			for _, ran := range chain[:i+1] {
				ran.DidExecute(cmd, nav.Cancelled{}, at)
			}
			return nav.Cancelled{}
		}
		if next != nil {
			current = next
		}
	}

	// Apply to the live stack; hooks may have executed nested commands.
	s.mu.Lock()
	base := s.stack
	after, result := engine.Apply(current, base)
	s.stack = after
	onChange := s.onChange
	s.mu.Unlock()

	if !base.Equal(after) {
		s.logger.Debug("stack changed", "kind", nav.Kind(current), "from", base.Len(), "to", after.Len())
		if onChange != nil {
			onChange(base, after)
		}
	}

	for _, mw := range chain {
		mw.DidExecute(current, result, after)
	}

	return result
}

// snapshot copies the stack and middleware list under the lock.
func (s *Store[R]) snapshot() (nav.Stack[R], []Middleware[R]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack, slices.Clone(s.middleware)
}
