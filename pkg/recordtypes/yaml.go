package recordtypes

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// MarshalYAML emits role before text and keeps multi-line texts decodable.
func (r Record) MarshalYAML() (any, error) {
	role, err := valueNode(r.Role)
	if err != nil {
		return nil, err
	}
	text, err := valueNode(r.Text)
	if err != nil {
		return nil, err
	}
	return &yaml.Node{
		Kind:    yaml.MappingNode,
		Content: []*yaml.Node{keyNode(FieldRole), role, keyNode(FieldText), text},
	}, nil
}

// MarshalYAML encodes the part text the same way Record does.
func (p Part) MarshalYAML() (any, error) {
	text, err := valueNode(p.Text)
	if err != nil {
		return nil, err
	}
	return &yaml.Node{
		Kind:    yaml.MappingNode,
		Content: []*yaml.Node{keyNode(FieldText), text},
	}, nil
}

func keyNode(name string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}
}

// valueNode encodes v with yaml.v3's own scalar rules, except for multi-line
// strings that yaml.v3 would write as a literal block it cannot parse back:
// a line starting with a tab, or a first line starting with a space.
// Those are double quoted.
func valueNode(v any) (*yaml.Node, error) {
	if s, ok := v.(string); ok && needsQuoting(s) {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s, Style: yaml.DoubleQuotedStyle}, nil
	}
	if v == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return n, nil
}

func needsQuoting(s string) bool {
	if !strings.Contains(s, "\n") {
		return false
	}
	return strings.Contains(s, "\t") || strings.HasPrefix(s, " ")
}
