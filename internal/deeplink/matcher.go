package deeplink

import (
	"net/url"
)

// Handler turns captured params into a route. Returning false rejects the
// match and lets the matcher try the next mapping.
type Handler[R comparable] func(params Params) (R, bool)

// Static returns a handler that always resolves to r.
func Static[R comparable](r R) Handler[R] {
	return func(Params) (R, bool) { return r, true }
}

// Resolver resolves a URL to a route.
type Resolver[R comparable] interface {
	Resolve(u *url.URL) (R, bool)
}

type mapping[R comparable] struct {
	pattern *Pattern
	handler Handler[R]
}

// Matcher resolves URLs against ordered mappings; first match wins.
//
// Register mappings before resolving. Matcher is not safe for concurrent
// registration.
type Matcher[R comparable] struct {
	mappings []mapping[R]
}

// NewMatcher creates an empty matcher.
func NewMatcher[R comparable]() *Matcher[R] {
	return &Matcher[R]{}
}

// Handle compiles template and appends a mapping.
func (m *Matcher[R]) Handle(template string, h Handler[R]) error {
	p, err := Compile(template)
	if err != nil {
		return err
	}
	m.Add(p, h)
	return nil
}

// Add appends a mapping for an already compiled pattern.
func (m *Matcher[R]) Add(p *Pattern, h Handler[R]) {
	m.mappings = append(m.mappings, mapping[R]{pattern: p, handler: h})
}

// Len returns the number of mappings.
func (m *Matcher[R]) Len() int {
	return len(m.mappings)
}

// Resolve returns the route of the first mapping whose pattern matches u and
// whose handler accepts the params.
func (m *Matcher[R]) Resolve(u *url.URL) (R, bool) {
	for _, mp := range m.mappings {
		params, ok := mp.pattern.MatchURL(u)
		if !ok {
			continue
		}
		if r, ok := mp.handler(params); ok {
			return r, true
		}
	}
	var zero R
	return zero, false
}
