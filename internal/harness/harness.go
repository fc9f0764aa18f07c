package harness

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/navkit/internal/compiler"
	"github.com/roach88/navkit/internal/deeplink"
	"github.com/roach88/navkit/internal/nav"
	"github.com/roach88/navkit/internal/route"
	"github.com/roach88/navkit/internal/store"
	"github.com/roach88/navkit/internal/trace"
)

// Option configures a run.
type Option func(*config)

type config struct {
	logger *slog.Logger
	clock  trace.Clock
	sinks  []trace.Sink
}

// WithLogger routes store and pipeline debug output to logger.
// Default: discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithClock sets the trace sequence source.
func WithClock(clock trace.Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithSink forwards trace events as they are recorded, e.g. to a journal.
func WithSink(s trace.Sink) Option {
	return func(c *config) {
		c.sinks = append(c.sinks, s)
	}
}

// Harness drives one scenario. It plays the policy layer around the deep
// link pipeline: plans are executed, pending navigations are retained until
// sign in.
type Harness struct {
	store         *store.Store[route.Ref]
	pipeline      *deeplink.Pipeline[route.Ref]
	recorder      *trace.Recorder[route.Ref]
	authenticated bool
	pending       []deeplink.PendingNav[route.Ref]
	logger        *slog.Logger
}

// Run executes scenario against a fresh store and returns the observed
// result. An error means the scenario could not be set up; failed
// expectations are reported in the result.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	cfg := &config{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	h, err := newHarness(scenario, cfg)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		sr := h.runStep(i, step)
		result.Steps = append(result.Steps, sr)
		if step.Expect != nil {
			for _, msg := range checkExpect(sr, step.Expect) {
				result.AddError(fmt.Sprintf("step %d (%s): %s", i, sr.Action, msg))
			}
		}
		h.logger.Debug("scenario step", "step", i, "action", sr.Action, "result", sr.Result, "decision", sr.Decision)
	}

	result.Trace = h.recorder.Events()
	result.FinalPath = trace.PathStrings(h.store.Stack())

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

func newHarness(scenario *Scenario, cfg *config) (*Harness, error) {
	h := &Harness{
		authenticated: scenario.Authenticated,
		logger:        cfg.logger,
	}

	recOpts := []trace.RecorderOption[route.Ref]{}
	if cfg.clock != nil {
		recOpts = append(recOpts, trace.WithClock[route.Ref](cfg.clock))
	}
	for _, s := range cfg.sinks {
		recOpts = append(recOpts, trace.WithSink[route.Ref](s))
	}
	h.recorder = trace.NewRecorder(recOpts...)

	mws := []store.Middleware[route.Ref]{h.recorder}
	for _, spec := range scenario.Middleware {
		mws = append(mws, buildMiddleware(spec)...)
	}
	mws = append(mws, store.Logging[route.Ref](cfg.logger))

	h.store = store.New(
		store.WithInitialPath(scenario.Initial...),
		store.WithMiddleware(mws...),
		store.WithChangeHandler(h.recorder.OnChange),
		store.WithLogger[route.Ref](cfg.logger),
	)

	if scenario.Routes != "" {
		table, err := compiler.LoadRouteTable(scenario.Routes)
		if err != nil {
			return nil, fmt.Errorf("load routes: %w", err)
		}
		h.pipeline, err = table.Pipeline(func() bool { return h.authenticated },
			deeplink.WithLogger[route.Ref](cfg.logger))
		if err != nil {
			return nil, fmt.Errorf("build pipeline: %w", err)
		}
	}

	return h, nil
}

func buildMiddleware(spec MiddlewareSpec) []store.Middleware[route.Ref] {
	var mws []store.Middleware[route.Ref]

	if len(spec.Deny) > 0 || len(spec.Block) > 0 {
		mws = append(mws, store.Guard(func(cmd nav.Command[route.Ref], _ nav.Stack[route.Ref]) bool {
			if slices.Contains(spec.Deny, nav.Kind(cmd)) {
				return true
			}
			if push, ok := cmd.(nav.PushCommand[route.Ref]); ok {
				return slices.Contains(spec.Block, push.Route)
			}
			return false
		}))
	}

	if rw := spec.Rewrite; rw != nil {
		mws = append(mws, store.MiddlewareFuncs[route.Ref]{
			Will: func(cmd nav.Command[route.Ref], _ nav.Stack[route.Ref]) (nav.Command[route.Ref], bool) {
				if push, ok := cmd.(nav.PushCommand[route.Ref]); ok && push.Route == rw.From {
					return nav.Push(rw.To), true
				}
				return cmd, true
			},
		})
	}

	return mws
}

func (h *Harness) runStep(i int, step Step) StepResult {
	changesBefore := h.changeCount()
	sr := StepResult{Index: i}

	switch {
	case step.Command != nil:
		cmd := h.buildCommand(step.Command)
		sr.Action = nav.Describe(cmd)
		sr.Result = h.store.Execute(cmd).String()

	case step.Open != "":
		sr.Action = "open " + step.Open
		sr.Decision, sr.Result = h.open(step.Open)

	case step.SignIn:
		sr.Action = "sign_in"
		h.authenticated = true
		sr.Result = h.resumePending()

	case step.SignOut:
		sr.Action = "sign_out"
		h.authenticated = false

	case step.Sync != nil:
		sr.Action = "sync " + fmt.Sprint(route.Strings(*step.Sync))
		sr.Result = h.store.SyncPath(*step.Sync).String()
	}

	sr.Path = trace.PathStrings(h.store.Stack())
	sr.Changed = h.changeCount() > changesBefore
	sr.Pending = len(h.pending)
	return sr
}

// open decides raw and applies the outcome. It returns the rendered
// decision and, for plans, the execution result.
func (h *Harness) open(raw string) (string, string) {
	d := h.pipeline.DecideString(raw)

	switch d := d.(type) {
	case deeplink.Plan[route.Ref]:
		return "plan", h.store.Execute(d.Plan.Command()).String()
	case deeplink.Pending[route.Ref]:
		h.pending = append(h.pending, d.Nav)
		return "pending", ""
	case deeplink.Rejected[route.Ref]:
		return "rejected(" + string(d.Reason) + ")", ""
	default:
		return d.String(), ""
	}
}

// resumePending executes every retained navigation in arrival order.
func (h *Harness) resumePending() string {
	if len(h.pending) == 0 {
		return ""
	}
	results := make([]nav.Result, 0, len(h.pending))
	for _, p := range h.pending {
		results = append(results, h.store.Execute(h.pipeline.Resume(p).Command()))
	}
	h.pending = nil
	if len(results) == 1 {
		return results[0].String()
	}
	return nav.Multiple{Results: results}.String()
}

func (h *Harness) changeCount() int {
	n := 0
	for _, e := range h.recorder.Events() {
		if e.Type == trace.EventChange {
			n++
		}
	}
	return n
}

func (h *Harness) buildCommand(c *CommandSpec) nav.Command[route.Ref] {
	switch c.Kind {
	case "push":
		return nav.Push(c.Route)
	case "pushAll":
		return nav.PushAll(c.Routes...)
	case "pop":
		return nav.Pop[route.Ref]()
	case "popCount":
		return nav.PopCount[route.Ref](c.Count)
	case "popToRoot":
		return nav.PopToRoot[route.Ref]()
	case "popTo":
		return nav.PopTo(c.Route)
	case "replace":
		return nav.Replace(c.Routes...)
	case "conditional":
		cond := c.If
		return nav.If(func() bool { return h.holds(cond) }, h.buildCommand(c.Then))
	case "sequence":
		cmds := make([]nav.Command[route.Ref], len(c.Sequence))
		for i := range c.Sequence {
			cmds[i] = h.buildCommand(&c.Sequence[i])
		}
		return nav.Seq(cmds...)
	default:
		panic(fmt.Sprintf("harness: unvalidated command kind %q", c.Kind))
	}
}

// holds evaluates cond against the store as it is when the conditional runs.
func (h *Harness) holds(cond *Condition) bool {
	s := h.store.Stack()
	if cond.Authenticated != nil && *cond.Authenticated != h.authenticated {
		return false
	}
	if cond.Top != nil {
		top, ok := s.Top()
		if !ok || top != *cond.Top {
			return false
		}
	}
	if cond.Contains != nil && !slices.Contains(s.Path(), *cond.Contains) {
		return false
	}
	if cond.MinDepth != nil && s.Len() < *cond.MinDepth {
		return false
	}
	return true
}

func checkExpect(sr StepResult, e *Expect) []string {
	var errs []string
	if e.Result != "" && e.Result != sr.Result {
		errs = append(errs, fmt.Sprintf("result: expected %q, got %q", e.Result, sr.Result))
	}
	if e.Path != nil {
		want := route.Strings(*e.Path)
		if !slices.Equal(want, sr.Path) {
			errs = append(errs, fmt.Sprintf("path: expected %v, got %v", want, sr.Path))
		}
	}
	if e.Changed != nil && *e.Changed != sr.Changed {
		errs = append(errs, fmt.Sprintf("changed: expected %t, got %t", *e.Changed, sr.Changed))
	}
	if e.Decision != "" {
		kind, reason := splitDecision(sr.Decision)
		if kind != e.Decision {
			errs = append(errs, fmt.Sprintf("decision: expected %q, got %q", e.Decision, sr.Decision))
		} else if e.Reason != "" && e.Reason != reason {
			errs = append(errs, fmt.Sprintf("reason: expected %q, got %q", e.Reason, reason))
		}
	}
	if e.Pending != nil && *e.Pending != sr.Pending {
		errs = append(errs, fmt.Sprintf("pending: expected %d, got %d", *e.Pending, sr.Pending))
	}
	return errs
}

// splitDecision splits "rejected(host)" into "rejected" and "host".
func splitDecision(d string) (string, string) {
	for i := 0; i < len(d); i++ {
		if d[i] == '(' && d[len(d)-1] == ')' {
			return d[:i], d[i+1 : len(d)-1]
		}
	}
	return d, ""
}
