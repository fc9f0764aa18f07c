// Package route provides Ref, the route type used by navkit's tooling.
//
// Applications normally declare their own route type. The route-table
// compiler, scenario harness, journal, and CLI need one concrete type they
// can read from text, so they all use Ref.
package route

import (
	"fmt"
	"strings"
)

// Ref names a screen and an optional argument, written "name" or
// "name:arg" (e.g. "detail:42"). Ref is comparable and safe as a map key.
type Ref struct {
	Name string
	Arg  string
}

// New returns a Ref without an argument.
func New(name string) Ref {
	return Ref{Name: name}
}

// With returns a Ref with an argument.
func With(name, arg string) Ref {
	return Ref{Name: name, Arg: arg}
}

// String renders the ref in its textual form.
func (r Ref) String() string {
	if r.Arg == "" {
		return r.Name
	}
	return r.Name + ":" + r.Arg
}

// Parse reads "name" or "name:arg". Only the first colon separates the
// name, so the argument may contain colons.
func Parse(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Ref{}, fmt.Errorf("route: empty reference")
	}
	name, arg, _ := strings.Cut(s, ":")
	if name == "" {
		return Ref{}, fmt.Errorf("route: missing name in %q", s)
	}
	return Ref{Name: name, Arg: arg}, nil
}

// ParseAll parses every element of ss.
func ParseAll(ss []string) ([]Ref, error) {
	refs := make([]Ref, 0, len(ss))
	for i, s := range ss {
		r, err := Parse(s)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		refs = append(refs, r)
	}
	return refs, nil
}

// Strings renders every ref.
func Strings(refs []Ref) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.String()
	}
	return out
}

// MarshalText implements encoding.TextMarshaler.
func (r Ref) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so refs decode from
// YAML and JSON strings.
func (r *Ref) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
