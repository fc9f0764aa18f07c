package trace

import (
	"fmt"

	"github.com/roach88/navkit/internal/nav"
)

// EventType names the hook an Event was recorded from.
type EventType string

const (
	EventWill   EventType = "will"
	EventDid    EventType = "did"
	EventChange EventType = "change"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventWill, EventDid, EventChange:
		return true
	}
	return false
}

// Event is one recorded hook invocation.
//
// Command is empty for change events. Result is only set on did events.
// Path is the stack at the time of the hook: before for will, after for did
// and change.
type Event struct {
	Seq     int64     `json:"seq" yaml:"seq"`
	Type    EventType `json:"type" yaml:"type"`
	Command string    `json:"command,omitempty" yaml:"command,omitempty"`
	Result  string    `json:"result,omitempty" yaml:"result,omitempty"`
	Path    []string  `json:"path" yaml:"path"`
}

func (e Event) String() string {
	switch e.Type {
	case EventWill:
		return fmt.Sprintf("#%d will %s %v", e.Seq, e.Command, e.Path)
	case EventDid:
		return fmt.Sprintf("#%d did %s -> %s %v", e.Seq, e.Command, e.Result, e.Path)
	default:
		return fmt.Sprintf("#%d %s %v", e.Seq, e.Type, e.Path)
	}
}

// PathStrings renders every route of s with %v. The result is never nil.
func PathStrings[R comparable](s nav.Stack[R]) []string {
	path := s.Path()
	out := make([]string, len(path))
	for i, r := range path {
		out[i] = fmt.Sprint(r)
	}
	return out
}
