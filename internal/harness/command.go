package harness

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/roach88/navkit/internal/route"
)

// CommandSpec is a navigation command written in a scenario.
//
// Accepted forms:
//
//	pop
//	pop_to_root
//	{push: detail:1}
//	{push_all: [a, b]}
//	{pop: true}
//	{pop_count: 2}
//	{pop_to_root: true}
//	{pop_to: home}
//	{replace: [home]}
//	{if: {min_depth: 2}, then: pop}
//	{sequence: [{push: a}, pop]}
type CommandSpec struct {
	Kind     string
	Route    route.Ref
	Routes   []route.Ref
	Count    int
	If       *Condition
	Then     *CommandSpec
	Sequence []CommandSpec
}

// Condition is evaluated against the live store when a conditional command
// executes. Every field that is set must hold.
type Condition struct {
	Authenticated *bool      `yaml:"authenticated,omitempty"`
	Top           *route.Ref `yaml:"top,omitempty"`
	Contains      *route.Ref `yaml:"contains,omitempty"`
	MinDepth      *int       `yaml:"min_depth,omitempty"`
}

func (c *Condition) empty() bool {
	return c.Authenticated == nil && c.Top == nil && c.Contains == nil && c.MinDepth == nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *CommandSpec) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.Value {
		case "pop":
			c.Kind = "pop"
		case "pop_to_root":
			c.Kind = "popToRoot"
		default:
			return fmt.Errorf("line %d: unknown command %q", n.Line, n.Value)
		}
		return nil
	case yaml.MappingNode:
	default:
		return fmt.Errorf("line %d: command must be a name or a mapping", n.Line)
	}

	fields := make(map[string]*yaml.Node, len(n.Content)/2)
	var keys []string
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		fields[key] = n.Content[i+1]
		keys = append(keys, key)
	}

	if cond, ok := fields["if"]; ok {
		then, ok := fields["then"]
		if !ok || len(fields) != 2 {
			return fmt.Errorf("line %d: if requires exactly one then", n.Line)
		}
		c.Kind = "conditional"
		c.If = &Condition{}
		if err := cond.Decode(c.If); err != nil {
			return err
		}
		if c.If.empty() {
			return fmt.Errorf("line %d: if needs at least one condition", cond.Line)
		}
		c.Then = &CommandSpec{}
		return then.Decode(c.Then)
	}

	if len(fields) != 1 {
		return fmt.Errorf("line %d: command must have exactly one key, got %v", n.Line, keys)
	}

	key, v := keys[0], fields[keys[0]]
	switch key {
	case "push":
		c.Kind = "push"
		return v.Decode(&c.Route)
	case "push_all":
		c.Kind = "pushAll"
		return decodeRoutes(v, &c.Routes)
	case "pop":
		c.Kind = "pop"
		return expectTrue(v, key)
	case "pop_count":
		c.Kind = "popCount"
		return v.Decode(&c.Count)
	case "pop_to_root":
		c.Kind = "popToRoot"
		return expectTrue(v, key)
	case "pop_to":
		c.Kind = "popTo"
		return v.Decode(&c.Route)
	case "replace":
		c.Kind = "replace"
		return decodeRoutes(v, &c.Routes)
	case "sequence":
		c.Kind = "sequence"
		c.Sequence = []CommandSpec{}
		return v.Decode(&c.Sequence)
	case "then":
		return fmt.Errorf("line %d: then without if", n.Line)
	default:
		return fmt.Errorf("line %d: unknown command %q", n.Line, key)
	}
}

func decodeRoutes(v *yaml.Node, out *[]route.Ref) error {
	refs := []route.Ref{}
	if err := v.Decode(&refs); err != nil {
		return err
	}
	*out = refs
	return nil
}

func expectTrue(v *yaml.Node, key string) error {
	var b bool
	if err := v.Decode(&b); err != nil {
		return err
	}
	if !b {
		return fmt.Errorf("line %d: %s must be true", v.Line, key)
	}
	return nil
}
