package tree

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Decode parses a YAML document into a Map, preserving key order.
// An empty document decodes to an empty map.
func Decode(data []byte) (*Map, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return NewMap(), nil
	}

	root, err := fromNode(doc.Content[0])
	if err != nil {
		return nil, err
	}
	if root.IsNull() {
		return NewMap(), nil
	}
	m, ok := root.Map()
	if !ok {
		return nil, fmt.Errorf("top-level yaml value is a %s, expected a mapping", root.Kind())
	}
	return m, nil
}

// Encode serializes m as a block-style YAML document in insertion order.
func Encode(m *Map) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toNode(Mapping(m))); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func fromNode(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		if n.Alias == nil {
			return Value{}, errors.New("dangling yaml alias")
		}
		return fromNode(n.Alias)
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return fromNode(n.Content[0])
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := fromNode(c)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Seq(items...), nil
	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return Value{}, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
			}
			v, err := fromNode(valNode)
			if err != nil {
				return Value{}, err
			}
			m.Set(keyNode.Value, v)
		}
		return Mapping(m), nil
	case yaml.ScalarNode:
		return scalar(n)
	}
	return Value{}, fmt.Errorf("line %d: unsupported yaml node kind %d", n.Line, n.Kind)
}

func scalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			// Out of int64 range: keep the literal text.
			return String(n.Value), nil
		}
		return Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return Float(f), nil
	default:
		return String(n.Value), nil
	}
}

func toNode(v Value) *yaml.Node {
	switch v.kind {
	case KindString:
		return stringNode(v.str)
	case KindInt:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v.num, 10)}
	case KindFloat:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatFloat(v.flt)}
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.flag)}
	case KindSeq:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if len(v.seq) == 0 {
			n.Style = yaml.FlowStyle
		}
		for _, item := range v.seq {
			n.Content = append(n.Content, toNode(item))
		}
		return n
	case KindMap:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		if v.m.Len() == 0 {
			n.Style = yaml.FlowStyle
		}
		v.m.Range(func(k string, item Value) bool {
			n.Content = append(n.Content,
				stringNode(k),
				toNode(item),
			)
			return true
		})
		return n
	case KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

// stringNode picks a style that decodes back to s. A block literal cannot
// hold a string made only of line breaks, nor a carriage return, so those
// are double-quoted.
func stringNode(s string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	switch {
	case strings.Contains(s, "\r") || (s != "" && strings.Trim(s, "\n") == ""):
		n.Style = yaml.DoubleQuotedStyle
	case strings.Contains(s, "\n"):
		n.Style = yaml.LiteralStyle
	}
	return n
}

// formatFloat renders f so that it decodes back as a float, not an int.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
