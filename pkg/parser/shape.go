package parser

import (
	"strings"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Shape is the normalized node shape shared by both concrete syntaxes.
// All logic above this package operates on shapes only, never on the
// concrete grammar that produced them.
type Shape int

const (
	ShapeScalar Shape = iota
	ShapeMapping
	ShapeSequence
	// ShapeEntry is the structural key/value wrapper inside a mapping.
	// It spans the whole entry (key through value) but contributes no
	// address segment of its own beyond the key.
	ShapeEntry
)

func (s Shape) String() string {
	switch s {
	case ShapeMapping:
		return "mapping"
	case ShapeSequence:
		return "sequence"
	case ShapeEntry:
		return "entry"
	default:
		return "scalar"
	}
}

// shapeAdapter normalizes one concrete grammar's node kinds into
// shapes. Supporting a third concrete syntax means adding a third
// adapter; nothing downstream changes.
type shapeAdapter interface {
	shapeOf(n *yaml.Node) (Shape, error)
}

func adapterFor(kind SyntaxKind) shapeAdapter {
	if kind == SyntaxJSON {
		return jsonShapeAdapter{}
	}
	return yamlShapeAdapter{}
}

// yamlShapeAdapter accepts the full YAML node surface: block and flow
// styles, aliases, and the language's short-form intrinsic tags
// (!Ref, !GetAtt, !Sub, ...), which stay attached to the normalized
// node as its tag.
type yamlShapeAdapter struct{}

func (yamlShapeAdapter) shapeOf(n *yaml.Node) (Shape, error) {
	switch n.Kind {
	case yaml.MappingNode:
		return ShapeMapping, nil
	case yaml.SequenceNode:
		return ShapeSequence, nil
	case yaml.ScalarNode, yaml.AliasNode:
		return ShapeScalar, nil
	default:
		return ShapeScalar, errors.Errorf("unsupported yaml node kind %d at %d:%d", n.Kind, n.Line, n.Column)
	}
}

// jsonShapeAdapter accepts only the JSON subset: flow-style
// collections, no anchors or aliases, no custom tags.
type jsonShapeAdapter struct{}

func (jsonShapeAdapter) shapeOf(n *yaml.Node) (Shape, error) {
	if n.Kind == yaml.AliasNode || n.Anchor != "" {
		return ShapeScalar, errors.Errorf("yaml alias/anchor is not valid json at %d:%d", n.Line, n.Column)
	}
	if isShortTag(n.Tag) {
		return ShapeScalar, errors.Errorf("short-form tag %q is not valid json at %d:%d", n.Tag, n.Line, n.Column)
	}
	switch n.Kind {
	case yaml.MappingNode:
		if n.Style&yaml.FlowStyle == 0 {
			return ShapeMapping, errors.Errorf("block mapping is not valid json at %d:%d", n.Line, n.Column)
		}
		return ShapeMapping, nil
	case yaml.SequenceNode:
		if n.Style&yaml.FlowStyle == 0 {
			return ShapeSequence, errors.Errorf("block sequence is not valid json at %d:%d", n.Line, n.Column)
		}
		return ShapeSequence, nil
	case yaml.ScalarNode:
		return ShapeScalar, nil
	default:
		return ShapeScalar, errors.Errorf("unsupported node kind %d at %d:%d", n.Kind, n.Line, n.Column)
	}
}

// isShortTag reports whether tag is an application short tag like
// "!Ref", as opposed to a standard "!!str"-style tag or no tag.
func isShortTag(tag string) bool {
	return strings.HasPrefix(tag, "!") && !strings.HasPrefix(tag, "!!")
}
