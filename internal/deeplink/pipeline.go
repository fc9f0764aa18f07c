package deeplink

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/roach88/navkit/internal/nav"
)

// Planner builds the plan for a resolved route.
type Planner[R comparable] func(route R, u *url.URL) NavPlan[R]

// PushPlanner is the default planner: a single push of the route.
func PushPlanner[R comparable](route R, _ *url.URL) NavPlan[R] {
	return NavPlan[R]{Commands: []nav.Command[R]{nav.Push(route)}}
}

// Pipeline turns URLs into decisions. Configure it with options; a
// configured pipeline is read-only and safe for concurrent use provided the
// resolver and callbacks are.
type Pipeline[R comparable] struct {
	resolver        Resolver[R]
	schemes         map[string]struct{} // nil = any scheme
	hosts           map[string]struct{} // nil = any host
	requiresAuth    func(R) bool
	isAuthenticated func() bool
	planner         Planner[R]
	logger          *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption[R comparable] func(*Pipeline[R])

// WithAllowedSchemes restricts URLs to the given schemes, compared
// case-insensitively. Configuring an empty set rejects every URL.
func WithAllowedSchemes[R comparable](schemes ...string) PipelineOption[R] {
	return func(p *Pipeline[R]) {
		p.schemes = foldSet(schemes)
	}
}

// WithAllowedHosts restricts URLs to the given hosts, compared
// case-insensitively and without port.
func WithAllowedHosts[R comparable](hosts ...string) PipelineOption[R] {
	return func(p *Pipeline[R]) {
		p.hosts = foldSet(hosts)
	}
}

// WithAuth enables the authentication gate. Both functions are required;
// the gate is inactive if either is nil.
func WithAuth[R comparable](requiresAuth func(R) bool, isAuthenticated func() bool) PipelineOption[R] {
	return func(p *Pipeline[R]) {
		p.requiresAuth = requiresAuth
		p.isAuthenticated = isAuthenticated
	}
}

// WithPlanner replaces the default single-push planner.
func WithPlanner[R comparable](planner Planner[R]) PipelineOption[R] {
	return func(p *Pipeline[R]) {
		p.planner = planner
	}
}

// WithLogger sets the logger for decision debug output. A nil logger keeps
// slog.Default().
func WithLogger[R comparable](logger *slog.Logger) PipelineOption[R] {
	return func(p *Pipeline[R]) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline creates a pipeline that resolves routes with resolver.
func NewPipeline[R comparable](resolver Resolver[R], opts ...PipelineOption[R]) *Pipeline[R] {
	p := &Pipeline[R]{
		resolver: resolver,
		planner:  PushPlanner[R],
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Decide computes the decision for u.
func (p *Pipeline[R]) Decide(u *url.URL) Decision[R] {
	if p.schemes != nil && !inFoldSet(p.schemes, u.Scheme) {
		p.logger.Debug("deep link rejected", "reason", RejectScheme, "scheme", u.Scheme)
		return Rejected[R]{Reason: RejectScheme}
	}
	if p.hosts != nil && !inFoldSet(p.hosts, u.Hostname()) {
		p.logger.Debug("deep link rejected", "reason", RejectHost, "host", u.Hostname())
		return Rejected[R]{Reason: RejectHost}
	}

	route, ok := p.resolver.Resolve(u)
	if !ok {
		p.logger.Debug("deep link unhandled", "path", u.EscapedPath())
		return Unhandled[R]{}
	}

	if p.requiresAuth != nil && p.isAuthenticated != nil && p.requiresAuth(route) && !p.isAuthenticated() {
		p.logger.Debug("deep link pending", "route", route)
		return Pending[R]{Nav: PendingNav[R]{URL: u, Route: route}}
	}

	return Plan[R]{Plan: p.planner(route, u)}
}

// DecideString parses raw and decides. An unparsable URL is rejected.
func (p *Pipeline[R]) DecideString(raw string) Decision[R] {
	u, err := url.Parse(raw)
	if err != nil {
		p.logger.Debug("deep link rejected", "reason", RejectMalformed, "error", err)
		return Rejected[R]{Reason: RejectMalformed}
	}
	return p.Decide(u)
}

// Resume builds the plan for a pending navigation. The caller decides when
// the precondition holds; Resume does not check it again.
func (p *Pipeline[R]) Resume(pending PendingNav[R]) NavPlan[R] {
	return p.planner(pending.Route, pending.URL)
}

func foldSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}

func inFoldSet(set map[string]struct{}, v string) bool {
	if v == "" {
		return false
	}
	_, ok := set[strings.ToLower(v)]
	return ok
}
