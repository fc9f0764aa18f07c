package harness

import "github.com/roach88/navkit/internal/trace"

// StepResult is the observed outcome of one step.
type StepResult struct {
	Index    int      `json:"index"`
	Action   string   `json:"action"`
	Result   string   `json:"result,omitempty"`
	Decision string   `json:"decision,omitempty"`
	Path     []string `json:"path"`
	Changed  bool     `json:"changed"`
	Pending  int      `json:"pending"`
}

func (s StepResult) canonical() map[string]any {
	path := make([]any, len(s.Path))
	for i, p := range s.Path {
		path[i] = p
	}
	m := map[string]any{
		"index":   s.Index,
		"action":  s.Action,
		"path":    path,
		"changed": s.Changed,
		"pending": s.Pending,
	}
	if s.Result != "" {
		m["result"] = s.Result
	}
	if s.Decision != "" {
		m["decision"] = s.Decision
	}
	return m
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	Steps []StepResult  `json:"steps"`
	Trace []trace.Event `json:"trace"`

	FinalPath []string `json:"final_path"`

	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:      true,
		Steps:     []StepResult{},
		Trace:     []trace.Event{},
		FinalPath: []string{},
		Errors:    []string{},
	}
}

// AddError records a failure and marks the result failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
