package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Node is one expression in a document. Exactly one of its forms is set.
type Node struct {
	// Literal holds any YAML value. Plain timestamps such as
	// 2019-10-16T12:00:00Z become Timestamp values.
	Literal yaml.Node       `yaml:"literal"`
	Path    string          `yaml:"path"`
	Var     string          `yaml:"var"`
	Regex   string          `yaml:"regex"`
	Call    string          `yaml:"call"`
	Args    Args            `yaml:"args"`
	Array   []Node          `yaml:"array"`
	Map     map[string]Node `yaml:"map"`
	Block   []Node          `yaml:"block"`
}

// Form names the node's form.
func (n *Node) Form() string {
	switch {
	case n.Literal.Kind != 0:
		return "literal"
	case n.Path != "":
		return "path"
	case n.Var != "":
		return "var"
	case n.Regex != "":
		return "regex"
	case n.Call != "":
		return "call"
	case n.Array != nil:
		return "array"
	case n.Map != nil:
		return "map"
	case n.Block != nil:
		return "block"
	}
	return ""
}

// literalValue decodes the literal into native Go data.
func (n *Node) literalValue() (interface{}, error) {
	lit := &n.Literal
	if lit.Kind == yaml.ScalarNode && lit.ShortTag() == "!!timestamp" {
		var t time.Time
		if err := lit.Decode(&t); err != nil {
			return nil, err
		}
		return t, nil
	}
	var v interface{}
	if err := lit.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Args are the arguments of a call: keyword arguments when written as a
// mapping, positional ones when written as a sequence.
type Args struct {
	Positional []Node
	Keyword    []KeywordArg
}

// KeywordArg is one keyword argument, in document order.
type KeywordArg struct {
	Keyword string
	Value   Node
}

// Len returns the number of arguments.
func (a *Args) Len() int {
	return len(a.Positional) + len(a.Keyword)
}

func (a *Args) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		return value.Decode(&a.Positional)
	case yaml.MappingNode:
		a.Keyword = make([]KeywordArg, 0, len(value.Content)/2)
		for i := 0; i+1 < len(value.Content); i += 2 {
			var node Node
			if err := value.Content[i+1].Decode(&node); err != nil {
				return err
			}
			a.Keyword = append(a.Keyword, KeywordArg{Keyword: value.Content[i].Value, Value: node})
		}
		return nil
	}
	return fmt.Errorf("line %d: args must be a mapping or a sequence", value.Line)
}
