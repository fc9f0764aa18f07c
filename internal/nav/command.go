package nav

// Command is a declarative description of a stack mutation.
//
// Command is sealed. The unexported marker method takes R so that a
// Command[A] can never be passed where a Command[B] is expected.
type Command[R comparable] interface {
	command(R)
}

// PushCommand appends Route.
type PushCommand[R comparable] struct {
	Route R
}

// PushAllCommand appends Routes in order. Routes may be empty.
type PushAllCommand[R comparable] struct {
	Routes []R
}

// PopCommand drops the top route.
type PopCommand[R comparable] struct{}

// PopCountCommand drops the top Count routes.
type PopCountCommand[R comparable] struct {
	Count int
}

// PopToRootCommand clears the stack.
type PopToRootCommand[R comparable] struct{}

// PopToCommand truncates the stack to the first occurrence of Route,
// scanning from the bottom.
type PopToCommand[R comparable] struct {
	Route R
}

// ReplaceCommand sets the whole path to Routes.
type ReplaceCommand[R comparable] struct {
	Routes []R
}

// ConditionalCommand runs Command only if Predicate holds when the
// command executes. The predicate is never evaluated at construction.
type ConditionalCommand[R comparable] struct {
	Predicate func() bool
	Command   Command[R]
}

// SequenceCommand runs Commands in order against the evolving stack.
// A failing step does not stop later steps and nothing is rolled back.
type SequenceCommand[R comparable] struct {
	Commands []Command[R]
}

func (PushCommand[R]) command(R)        {}
func (PushAllCommand[R]) command(R)     {}
func (PopCommand[R]) command(R)         {}
func (PopCountCommand[R]) command(R)    {}
func (PopToRootCommand[R]) command(R)   {}
func (PopToCommand[R]) command(R)       {}
func (ReplaceCommand[R]) command(R)     {}
func (ConditionalCommand[R]) command(R) {}
func (SequenceCommand[R]) command(R)    {}

// Push returns a command that appends r.
func Push[R comparable](r R) Command[R] {
	return PushCommand[R]{Route: r}
}

// PushAll returns a command that appends every route in rs.
func PushAll[R comparable](rs ...R) Command[R] {
	return PushAllCommand[R]{Routes: rs}
}

// Pop returns a command that drops the top route.
func Pop[R comparable]() Command[R] {
	return PopCommand[R]{}
}

// PopCount returns a command that drops the top n routes.
func PopCount[R comparable](n int) Command[R] {
	return PopCountCommand[R]{Count: n}
}

// PopToRoot returns a command that clears the stack.
func PopToRoot[R comparable]() Command[R] {
	return PopToRootCommand[R]{}
}

// PopTo returns a command that truncates the stack to the first r.
func PopTo[R comparable](r R) Command[R] {
	return PopToCommand[R]{Route: r}
}

// Replace returns a command that sets the path to rs.
func Replace[R comparable](rs ...R) Command[R] {
	return ReplaceCommand[R]{Routes: rs}
}

// If returns a command that runs cmd only when pred holds at execution time.
func If[R comparable](pred func() bool, cmd Command[R]) Command[R] {
	return ConditionalCommand[R]{Predicate: pred, Command: cmd}
}

// Seq returns a command that runs cmds in order.
func Seq[R comparable](cmds ...Command[R]) Command[R] {
	return SequenceCommand[R]{Commands: cmds}
}

// Kind names the variant of cmd, e.g. "push" or "sequence".
// Used for logging, tracing, and middleware filters.
func Kind[R comparable](cmd Command[R]) string {
	switch cmd.(type) {
	case PushCommand[R]:
		return "push"
	case PushAllCommand[R]:
		return "pushAll"
	case PopCommand[R]:
		return "pop"
	case PopCountCommand[R]:
		return "popCount"
	case PopToRootCommand[R]:
		return "popToRoot"
	case PopToCommand[R]:
		return "popTo"
	case ReplaceCommand[R]:
		return "replace"
	case ConditionalCommand[R]:
		return "conditional"
	case SequenceCommand[R]:
		return "sequence"
	default:
		return "unknown"
	}
}

// IsComposite reports whether cmd is a conditional or a sequence.
func IsComposite[R comparable](cmd Command[R]) bool {
	switch cmd.(type) {
	case ConditionalCommand[R], SequenceCommand[R]:
		return true
	}
	return false
}
