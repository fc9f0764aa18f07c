package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/navkit/internal/route"
)

// Scenario is a scripted navigation session with expectations.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// Routes is a CUE route table, relative to the scenario file. Required
	// when any step opens a URL.
	Routes string `yaml:"routes,omitempty"`

	Initial       []route.Ref `yaml:"initial,omitempty"`
	Authenticated bool        `yaml:"authenticated,omitempty"`

	// Middleware is installed in order after the trace recorder.
	Middleware []MiddlewareSpec `yaml:"middleware,omitempty"`

	Steps []Step `yaml:"steps"`

	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// MiddlewareSpec declares a scripted middleware.
type MiddlewareSpec struct {
	Name string `yaml:"name"`

	// Deny vetoes every primitive command of the listed kinds, e.g. "pop".
	Deny []string `yaml:"deny,omitempty"`

	// Block vetoes pushes of the listed routes.
	Block []route.Ref `yaml:"block,omitempty"`

	// Rewrite turns a push of From into a push of To.
	Rewrite *RewriteSpec `yaml:"rewrite,omitempty"`
}

// RewriteSpec replaces one pushed route with another.
type RewriteSpec struct {
	From route.Ref `yaml:"from"`
	To   route.Ref `yaml:"to"`
}

// Step is one scenario action. Exactly one of Command, Open, SignIn,
// SignOut or Sync is set.
type Step struct {
	Command *CommandSpec `yaml:"command,omitempty"`

	// Open runs a URL through the deep-link pipeline and applies the plan.
	Open string `yaml:"open,omitempty"`

	// SignIn authenticates and resumes retained pending navigations.
	SignIn bool `yaml:"sign_in,omitempty"`

	SignOut bool `yaml:"sign_out,omitempty"`

	// Sync reports a host-driven path change through the store's
	// renderer write path.
	Sync *[]route.Ref `yaml:"sync,omitempty"`

	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect checks the outcome of one step. Unset fields are not checked.
type Expect struct {
	// Result is the rendered Result, e.g. "success" or "multiple[success,stackEmpty]".
	Result string `yaml:"result,omitempty"`

	Path *[]route.Ref `yaml:"path,omitempty"`

	// Changed reports whether the change handler fired during the step.
	Changed *bool `yaml:"changed,omitempty"`

	// Decision is the decision kind of an open step: rejected, unhandled,
	// pending or plan.
	Decision string `yaml:"decision,omitempty"`

	// Reason is the rejection reason: scheme, host or malformed.
	Reason string `yaml:"reason,omitempty"`

	// Pending is the number of retained pending navigations after the step.
	Pending *int `yaml:"pending,omitempty"`
}

// Assertion checks the whole run.
type Assertion struct {
	// Type is one of trace_contains, trace_order, trace_count, final_path
	// or change_count.
	Type string `yaml:"type"`

	// Command is a rendered command, e.g. "push(detail:1)".
	Command string `yaml:"command,omitempty"`

	// Result optionally narrows trace_contains to did events with this result.
	Result string `yaml:"result,omitempty"`

	Commands []string    `yaml:"commands,omitempty"`
	Count    int         `yaml:"count,omitempty"`
	Path     []route.Ref `yaml:"path,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalPath     = "final_path"
	AssertChangeCount   = "change_count"
)

// LoadScenario reads and validates a scenario file. Unknown fields are
// errors. A relative Routes path is resolved against the file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if s.Routes != "" && !filepath.IsAbs(s.Routes) {
		s.Routes = filepath.Join(filepath.Dir(path), s.Routes)
	}
	if s.Routes != "" {
		if _, err := os.Stat(s.Routes); err != nil {
			return nil, fmt.Errorf("invalid scenario: route table: %w", err)
		}
	}

	return s, nil
}

// ParseScenario decodes and validates scenario YAML. Routes is left as
// written.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &s, nil
}

// commandKinds are the primitive kinds a deny list may name.
var commandKinds = map[string]bool{
	"push": true, "pushAll": true, "pop": true, "popCount": true,
	"popToRoot": true, "popTo": true, "replace": true,
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, mw := range s.Middleware {
		if mw.Name == "" {
			return fmt.Errorf("middleware[%d]: name is required", i)
		}
		if len(mw.Deny) == 0 && len(mw.Block) == 0 && mw.Rewrite == nil {
			return fmt.Errorf("middleware[%d]: one of deny, block or rewrite is required", i)
		}
		for _, kind := range mw.Deny {
			if !commandKinds[kind] {
				return fmt.Errorf("middleware[%d]: unknown command kind %q", i, kind)
			}
		}
		if mw.Rewrite != nil && (mw.Rewrite.From.Name == "" || mw.Rewrite.To.Name == "") {
			return fmt.Errorf("middleware[%d]: rewrite needs from and to", i)
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
		if step.Open != "" && s.Routes == "" {
			return fmt.Errorf("steps[%d]: open requires a routes table", i)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}

	return nil
}

func validateStep(step Step) error {
	set := 0
	if step.Command != nil {
		set++
	}
	if step.Open != "" {
		set++
	}
	if step.SignIn {
		set++
	}
	if step.SignOut {
		set++
	}
	if step.Sync != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("exactly one of command, open, sign_in, sign_out or sync is required")
	}

	if step.Command != nil {
		if err := validateCommand(step.Command); err != nil {
			return err
		}
	}

	if e := step.Expect; e != nil {
		switch e.Decision {
		case "", "rejected", "unhandled", "pending", "plan":
		default:
			return fmt.Errorf("expect: unknown decision %q", e.Decision)
		}
		if e.Decision != "" && step.Open == "" {
			return fmt.Errorf("expect: decision only applies to open steps")
		}
		if e.Reason != "" && e.Decision != "rejected" {
			return fmt.Errorf("expect: reason requires decision rejected")
		}
	}

	return nil
}

func validateCommand(c *CommandSpec) error {
	switch c.Kind {
	case "popCount":
		if c.Count < 0 {
			return fmt.Errorf("pop_count must be non-negative")
		}
	case "conditional":
		return validateCommand(c.Then)
	case "sequence":
		for i := range c.Sequence {
			if err := validateCommand(&c.Sequence[i]); err != nil {
				return fmt.Errorf("sequence[%d]: %w", i, err)
			}
		}
	case "":
		return fmt.Errorf("command is empty")
	}
	return nil
}

func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		if a.Command == "" {
			return fmt.Errorf("command is required for %s", a.Type)
		}
	case AssertTraceOrder:
		if len(a.Commands) == 0 {
			return fmt.Errorf("commands list is required for %s", a.Type)
		}
	case AssertTraceCount:
		if a.Command == "" {
			return fmt.Errorf("command is required for %s", a.Type)
		}
		if a.Count < 0 {
			return fmt.Errorf("count must be non-negative for %s", a.Type)
		}
	case AssertFinalPath:
	case AssertChangeCount:
		if a.Count < 0 {
			return fmt.Errorf("count must be non-negative for %s", a.Type)
		}
	case "":
		return fmt.Errorf("type is required")
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
