package compiler

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"

	"github.com/roach88/navkit/internal/deeplink"
	"github.com/roach88/navkit/internal/route"
)

// RouteSpec is one deep-link mapping from a route table.
type RouteSpec struct {
	Pattern string
	Route   string
	Param   string // capture copied into Ref.Arg; empty means none
	Auth    bool
	Pos     token.Pos
}

// RouteTable is a compiled deeplink block. A nil Schemes or Hosts means the
// field was absent and that check is disabled; an empty non-nil slice
// rejects every URL.
type RouteTable struct {
	Schemes []string
	Hosts   []string
	Routes  []RouteSpec
}

// CompileRouteTable reads the deeplink block from v.
//
// The expected shape is:
//
//	deeplink: {
//		schemes: ["myapp", "https"]
//		hosts:   ["example.com"]
//		routes: [
//			{pattern: "/products/:id", route: "product", param: "id"},
//			{pattern: "/settings", route: "settings", auth: true},
//		]
//	}
func CompileRouteTable(v cue.Value) (*RouteTable, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError("cue", err)
	}

	dl := v.LookupPath(cue.ParsePath("deeplink"))
	if !dl.Exists() {
		return nil, &CompileError{
			Field:   "deeplink",
			Message: "deeplink block is required",
			Pos:     v.Pos(),
		}
	}

	table := &RouteTable{}
	var err error

	table.Schemes, err = parseStringList(dl, "schemes")
	if err != nil {
		return nil, err
	}
	table.Hosts, err = parseStringList(dl, "hosts")
	if err != nil {
		return nil, err
	}

	routesVal := dl.LookupPath(cue.ParsePath("routes"))
	if !routesVal.Exists() {
		return nil, &CompileError{
			Field:   "routes",
			Message: "routes is required",
			Pos:     dl.Pos(),
		}
	}
	iter, err := routesVal.List()
	if err != nil {
		return nil, formatCUEError("routes", err)
	}
	for i := 0; iter.Next(); i++ {
		spec, err := parseRouteSpec(iter.Value(), i)
		if err != nil {
			return nil, err
		}
		table.Routes = append(table.Routes, spec)
	}

	return table, nil
}

// parseStringList returns nil when the field is absent.
func parseStringList(v cue.Value, field string) ([]string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, nil
	}
	iter, err := fv.List()
	if err != nil {
		return nil, formatCUEError(field, err)
	}
	out := []string{}
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(field, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func parseRouteSpec(v cue.Value, index int) (RouteSpec, error) {
	field := fmt.Sprintf("routes[%d]", index)
	spec := RouteSpec{Pos: v.Pos()}

	var err error
	spec.Pattern, err = requiredString(v, field, "pattern")
	if err != nil {
		return spec, err
	}
	if _, err := deeplink.Compile(spec.Pattern); err != nil {
		return spec, &CompileError{Field: field + ".pattern", Message: err.Error(), Pos: v.Pos()}
	}

	spec.Route, err = requiredString(v, field, "route")
	if err != nil {
		return spec, err
	}
	if strings.Contains(spec.Route, ":") {
		return spec, &CompileError{
			Field:   field + ".route",
			Message: fmt.Sprintf("route name %q must not contain ':'", spec.Route),
			Pos:     v.Pos(),
		}
	}

	if pv := v.LookupPath(cue.ParsePath("param")); pv.Exists() {
		spec.Param, err = pv.String()
		if err != nil {
			return spec, formatCUEError(field+".param", err)
		}
	}

	if av := v.LookupPath(cue.ParsePath("auth")); av.Exists() {
		spec.Auth, err = av.Bool()
		if err != nil {
			return spec, formatCUEError(field+".auth", err)
		}
	}

	return spec, nil
}

func requiredString(v cue.Value, field, name string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return "", &CompileError{
			Field:   field + "." + name,
			Message: name + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(field+"."+name, err)
	}
	if s == "" {
		return "", &CompileError{
			Field:   field + "." + name,
			Message: name + " must not be empty",
			Pos:     fv.Pos(),
		}
	}
	return s, nil
}

// Matcher builds a matcher with one mapping per route spec, in
// declaration order.
func (t *RouteTable) Matcher() (*deeplink.Matcher[route.Ref], error) {
	m := deeplink.NewMatcher[route.Ref]()
	for i, spec := range t.Routes {
		if err := m.Handle(spec.Pattern, handlerFor(spec)); err != nil {
			return nil, fmt.Errorf("routes[%d]: %w", i, err)
		}
	}
	return m, nil
}

// handlerFor maps captured params to a Ref. A spec naming a param rejects
// URLs where that param is missing or empty.
func handlerFor(spec RouteSpec) deeplink.Handler[route.Ref] {
	if spec.Param == "" {
		return deeplink.Static(route.New(spec.Route))
	}
	return func(params deeplink.Params) (route.Ref, bool) {
		arg := params.Get(spec.Param)
		if arg == "" {
			return route.Ref{}, false
		}
		return route.With(spec.Route, arg), true
	}
}

// RequiresAuth reports whether any spec for ref's route name is marked auth.
func (t *RouteTable) RequiresAuth(ref route.Ref) bool {
	for _, spec := range t.Routes {
		if spec.Route == ref.Name && spec.Auth {
			return true
		}
	}
	return false
}

// Pipeline builds a decision pipeline from the table. isAuthenticated backs
// the auth gate; a nil function disables it. Extra options are applied
// after the table's own.
func (t *RouteTable) Pipeline(isAuthenticated func() bool, opts ...deeplink.PipelineOption[route.Ref]) (*deeplink.Pipeline[route.Ref], error) {
	m, err := t.Matcher()
	if err != nil {
		return nil, err
	}

	var all []deeplink.PipelineOption[route.Ref]
	if t.Schemes != nil {
		all = append(all, deeplink.WithAllowedSchemes[route.Ref](t.Schemes...))
	}
	if t.Hosts != nil {
		all = append(all, deeplink.WithAllowedHosts[route.Ref](t.Hosts...))
	}
	if isAuthenticated != nil {
		all = append(all, deeplink.WithAuth(t.RequiresAuth, isAuthenticated))
	}
	all = append(all, opts...)

	return deeplink.NewPipeline[route.Ref](m, all...), nil
}
