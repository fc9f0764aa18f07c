package deeplink

import (
	"fmt"
	"net/url"

	"github.com/roach88/navkit/internal/nav"
)

// PendingNav is a resolved navigation that waits for authentication.
// It belongs to the caller's policy layer, not to the pipeline or store.
type PendingNav[R comparable] struct {
	URL   *url.URL
	Route R
}

// NavPlan is the ordered list of commands to execute for a decision.
type NavPlan[R comparable] struct {
	Commands []nav.Command[R]
}

// Command returns the plan as a single command: the only command when the
// plan has one, a sequence otherwise.
func (p NavPlan[R]) Command() nav.Command[R] {
	if len(p.Commands) == 1 {
		return p.Commands[0]
	}
	return nav.Seq(p.Commands...)
}

// RejectReason says which check rejected a URL.
type RejectReason string

const (
	RejectScheme    RejectReason = "scheme"
	RejectHost      RejectReason = "host"
	RejectMalformed RejectReason = "malformed"
)

// Decision is the outcome of Pipeline.Decide. It is sealed.
type Decision[R comparable] interface {
	decision(R)
	String() string
}

// Rejected means the URL failed scheme or host validation.
type Rejected[R comparable] struct {
	Reason RejectReason
}

// Unhandled means no mapping resolved the URL.
type Unhandled[R comparable] struct{}

// Pending means the route requires authentication the user does not have.
type Pending[R comparable] struct {
	Nav PendingNav[R]
}

// Plan means the caller should execute Plan.Commands.
type Plan[R comparable] struct {
	Plan NavPlan[R]
}

func (Rejected[R]) decision(R)  {}
func (Unhandled[R]) decision(R) {}
func (Pending[R]) decision(R)   {}
func (Plan[R]) decision(R)      {}

func (Rejected[R]) String() string  { return "rejected" }
func (Unhandled[R]) String() string { return "unhandled" }

func (p Pending[R]) String() string {
	return fmt.Sprintf("pending(%v)", p.Nav.Route)
}

func (p Plan[R]) String() string {
	return fmt.Sprintf("plan[%d commands]", len(p.Plan.Commands))
}
