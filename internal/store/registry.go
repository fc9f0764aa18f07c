package store

import (
	"reflect"
	"sync"

	"github.com/roach88/navkit/internal/nav"
)

// Navigator is the type-erased view of a Store handed to code that does not
// know the route type, such as a generic back button.
type Navigator interface {
	Depth() int
	Back() nav.Result
	Reset() nav.Result
}

// Back pops the top route.
func (s *Store[R]) Back() nav.Result {
	return s.Execute(nav.Pop[R]())
}

// Reset clears the stack.
func (s *Store[R]) Reset() nav.Result {
	return s.Execute(nav.PopToRoot[R]())
}

// Registry exposes stores keyed by their route type, so nested UI nodes can
// find the navigator for the routes they know about.
//
// Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	stores map[reflect.Type]any
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{stores: make(map[reflect.Type]any)}
}

// Register makes s the navigator for route type R, replacing any previous one.
func Register[R comparable](reg *Registry, s *Store[R]) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.stores[reflect.TypeFor[R]()] = s
}

// Lookup returns the store registered for route type R.
func Lookup[R comparable](reg *Registry) (*Store[R], bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	s, ok := reg.stores[reflect.TypeFor[R]()].(*Store[R])
	return s, ok
}

// Navigators returns every registered store as a type-erased Navigator.
func (reg *Registry) Navigators() []Navigator {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]Navigator, 0, len(reg.stores))
	for _, s := range reg.stores {
		if n, ok := s.(Navigator); ok {
			out = append(out, n)
		}
	}
	return out
}

// NavigatorFor returns the type-erased navigator registered for the route
// type t.
func (reg *Registry) NavigatorFor(t reflect.Type) (Navigator, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	n, ok := reg.stores[t].(Navigator)
	return n, ok
}
