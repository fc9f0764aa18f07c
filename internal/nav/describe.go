package nav

import (
	"fmt"
	"strings"
)

// Describe renders cmd in a compact, stable textual form, for example
// "push(detail:1)" or "sequence(push(a),pop)". Routes are rendered with
// fmt's %v verb.
func Describe[R comparable](cmd Command[R]) string {
	switch c := cmd.(type) {
	case PushCommand[R]:
		return fmt.Sprintf("push(%v)", c.Route)
	case PushAllCommand[R]:
		return "pushAll(" + joinRoutes(c.Routes) + ")"
	case PopCommand[R]:
		return "pop"
	case PopCountCommand[R]:
		return fmt.Sprintf("popCount(%d)", c.Count)
	case PopToRootCommand[R]:
		return "popToRoot"
	case PopToCommand[R]:
		return fmt.Sprintf("popTo(%v)", c.Route)
	case ReplaceCommand[R]:
		return "replace(" + joinRoutes(c.Routes) + ")"
	case ConditionalCommand[R]:
		return "conditional(" + Describe(c.Command) + ")"
	case SequenceCommand[R]:
		parts := make([]string, len(c.Commands))
		for i, sub := range c.Commands {
			parts[i] = Describe(sub)
		}
		return "sequence(" + strings.Join(parts, ",") + ")"
	default:
		return "unknown"
	}
}

func joinRoutes[R comparable](routes []R) string {
	parts := make([]string, len(routes))
	for i, r := range routes {
		parts[i] = fmt.Sprint(r)
	}
	return strings.Join(parts, ",")
}
