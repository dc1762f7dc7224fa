// Package entity models the template's named top-level constructs and
// builds per-section name indexes on demand.
package entity

import (
	"strings"

	"github.com/walteh/cfnls/pkg/doctree"
	"github.com/walteh/cfnls/pkg/parser"
)

// Kind discriminates the closed set of entity variants.
type Kind int

const (
	KindUnknown Kind = iota
	KindParameter
	KindResource
	KindForEachResource
	KindMapping
	KindCondition
	KindOutput
	KindMetadata
	KindTransform
	KindRule
)

func (k Kind) String() string {
	switch k {
	case KindParameter:
		return "parameter"
	case KindResource:
		return "resource"
	case KindForEachResource:
		return "foreach-resource"
	case KindMapping:
		return "mapping"
	case KindCondition:
		return "condition"
	case KindOutput:
		return "output"
	case KindMetadata:
		return "metadata"
	case KindTransform:
		return "transform"
	case KindRule:
		return "rule"
	default:
		return "unknown"
	}
}

// Entity is one named top-level construct. Concrete variants carry
// kind-specific fields; there is no reflective field enumeration, one
// explicit struct per kind.
type Entity interface {
	Kind() Kind
	LogicalName() string
}

// Parameter is a template input.
type Parameter struct {
	Name    string
	Type    string
	Default string
	Node    parser.NodeID
}

func (p Parameter) Kind() Kind          { return KindParameter }
func (p Parameter) LogicalName() string { return p.Name }

// Resource is one provisioned construct.
type Resource struct {
	Name           string
	Type           string
	Properties     parser.NodeID
	DependsOn      []string
	Condition      string
	Metadata       parser.NodeID
	CreationPolicy parser.NodeID
	UpdatePolicy   parser.NodeID
	DeletionPolicy string
	Node           parser.NodeID
}

func (r Resource) Kind() Kind          { return KindResource }
func (r Resource) LogicalName() string { return r.Name }

// ForEachResource is a looped resource declaration
// (Fn::ForEach::<LoopName> inside the resources section).
type ForEachResource struct {
	Name     string
	LoopName string
	Node     parser.NodeID
}

func (f ForEachResource) Kind() Kind          { return KindForEachResource }
func (f ForEachResource) LogicalName() string { return f.Name }

// MappingTable is a named lookup table.
type MappingTable struct {
	Name string
	Node parser.NodeID
}

func (m MappingTable) Kind() Kind          { return KindMapping }
func (m MappingTable) LogicalName() string { return m.Name }

// Condition is a named boolean expression.
type Condition struct {
	Name string
	Node parser.NodeID
}

func (c Condition) Kind() Kind          { return KindCondition }
func (c Condition) LogicalName() string { return c.Name }

// Output is an exported stack value.
type Output struct {
	Name   string
	Value  parser.NodeID
	Export string
	Node   parser.NodeID
}

func (o Output) Kind() Kind          { return KindOutput }
func (o Output) LogicalName() string { return o.Name }

// Metadata is a named metadata block.
type Metadata struct {
	Name string
	Node parser.NodeID
}

func (m Metadata) Kind() Kind          { return KindMetadata }
func (m Metadata) LogicalName() string { return m.Name }

// Transform names a macro applied to the template.
type Transform struct {
	Name string
	Node parser.NodeID
}

func (t Transform) Kind() Kind          { return KindTransform }
func (t Transform) LogicalName() string { return t.Name }

// Rule is a parameter validation rule.
type Rule struct {
	Name          string
	RuleCondition parser.NodeID
	Assertions    parser.NodeID
	Node          parser.NodeID
}

func (r Rule) Kind() Kind          { return KindRule }
func (r Rule) LogicalName() string { return r.Name }

// Unknown covers entries whose section or shape is not recognized.
type Unknown struct {
	Name string
	Node parser.NodeID
}

func (u Unknown) Kind() Kind          { return KindUnknown }
func (u Unknown) LogicalName() string { return u.Name }

const forEachPrefix = "Fn::ForEach::"

// Decode builds the variant for one section entry. value is the
// entry's value node; scalar fields missing from the body stay zero.
func Decode(t *parser.Tree, section doctree.SectionKind, name string, value parser.NodeID) Entity {
	switch section {
	case doctree.SectionParameters:
		return Parameter{
			Name:    name,
			Type:    scalarField(t, value, "Type"),
			Default: scalarField(t, value, "Default"),
			Node:    value,
		}
	case doctree.SectionResources:
		if strings.HasPrefix(name, forEachPrefix) {
			return ForEachResource{
				Name:     name,
				LoopName: strings.TrimPrefix(name, forEachPrefix),
				Node:     value,
			}
		}
		return Resource{
			Name:           name,
			Type:           scalarField(t, value, "Type"),
			Properties:     nodeField(t, value, "Properties"),
			DependsOn:      stringListField(t, value, "DependsOn"),
			Condition:      scalarField(t, value, "Condition"),
			Metadata:       nodeField(t, value, "Metadata"),
			CreationPolicy: nodeField(t, value, "CreationPolicy"),
			UpdatePolicy:   nodeField(t, value, "UpdatePolicy"),
			DeletionPolicy: scalarField(t, value, "DeletionPolicy"),
			Node:           value,
		}
	case doctree.SectionMappings:
		return MappingTable{Name: name, Node: value}
	case doctree.SectionConditions:
		return Condition{Name: name, Node: value}
	case doctree.SectionOutputs:
		return Output{
			Name:   name,
			Value:  nodeField(t, value, "Value"),
			Export: scalarField(t, value, "Export"),
			Node:   value,
		}
	case doctree.SectionMetadata:
		return Metadata{Name: name, Node: value}
	case doctree.SectionTransform:
		return Transform{Name: name, Node: value}
	case doctree.SectionRules:
		return Rule{
			Name:          name,
			RuleCondition: nodeField(t, value, "RuleCondition"),
			Assertions:    nodeField(t, value, "Assertions"),
			Node:          value,
		}
	default:
		return Unknown{Name: name, Node: value}
	}
}

func nodeField(t *parser.Tree, mapping parser.NodeID, key string) parser.NodeID {
	if !t.Valid(mapping) || t.Shape(mapping) != parser.ShapeMapping {
		return parser.InvalidNode
	}
	if v, ok := t.Lookup(mapping, key); ok {
		return v
	}
	return parser.InvalidNode
}

func scalarField(t *parser.Tree, mapping parser.NodeID, key string) string {
	v := nodeField(t, mapping, key)
	if v == parser.InvalidNode || t.Shape(v) != parser.ShapeScalar {
		return ""
	}
	return t.ScalarValue(v)
}

func stringListField(t *parser.Tree, mapping parser.NodeID, key string) []string {
	v := nodeField(t, mapping, key)
	if v == parser.InvalidNode {
		return nil
	}
	switch t.Shape(v) {
	case parser.ShapeScalar:
		return []string{t.ScalarValue(v)}
	case parser.ShapeSequence:
		var out []string
		for _, item := range t.Items(v) {
			if t.Shape(item) == parser.ShapeScalar {
				out = append(out, t.ScalarValue(item))
			}
		}
		return out
	default:
		return nil
	}
}
