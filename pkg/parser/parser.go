// Package parser turns template source text into a normalized syntax
// tree. The concrete grammar work is delegated to gopkg.in/yaml.v3
// (the JSON syntax is the flow-style subset of YAML, so one underlying
// parser feeds both shape adapters); this package owns the arena
// representation and the source-span bookkeeping on top of it.
package parser

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/cfnls/pkg/position"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// NodeID is an integer handle into a Tree's node arena. Parent and
// child links are stored as ids rather than pointers, so a Tree has no
// reference cycles and nodes can be passed around by value.
type NodeID int

// InvalidNode is the zero-meaning node handle.
const InvalidNode NodeID = -1

type node struct {
	shape    Shape
	parent   NodeID
	children []NodeID
	value    string
	tag      string
	start    int
	end      int
}

// Tree is one parsed document: an arena of normalized nodes plus the
// offset index of the source snapshot they were parsed from.
type Tree struct {
	kind  SyntaxKind
	index *position.Index
	nodes []node
	root  NodeID
}

// Parse parses text under the given concrete syntax and returns the
// normalized tree. An empty document yields a tree whose root is an
// empty scalar rather than an error.
func Parse(ctx context.Context, text string, kind SyntaxKind) (*Tree, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, errors.Errorf("parsing %s document: %w", kind, err)
	}

	t := &Tree{
		kind:  kind,
		index: position.NewIndex(text),
		root:  InvalidNode,
	}

	if doc.Kind == 0 || len(doc.Content) == 0 {
		t.root = NodeID(0)
		t.nodes = append(t.nodes, node{shape: ShapeScalar, parent: InvalidNode})
		return t, nil
	}
	if kind == SyntaxJSON && len(doc.Content) > 1 {
		return nil, errors.New("multiple documents are not valid json")
	}

	b := &builder{tree: t, adapter: adapterFor(kind)}
	root, err := b.add(doc.Content[0], InvalidNode)
	if err != nil {
		return nil, errors.Errorf("normalizing %s document: %w", kind, err)
	}
	t.root = root

	zerolog.Ctx(ctx).Trace().
		Stringer("syntax", kind).
		Int("nodes", len(t.nodes)).
		Msg("parsed document")

	return t, nil
}

type builder struct {
	tree    *Tree
	adapter shapeAdapter
}

func (b *builder) add(n *yaml.Node, parent NodeID) (NodeID, error) {
	shape, err := b.adapter.shapeOf(n)
	if err != nil {
		return InvalidNode, err
	}

	text := b.tree.index.Text()
	start := b.tree.index.OffsetOf(position.Place{Line: n.Line - 1, Character: n.Column - 1})

	tag := ""
	if isShortTag(n.Tag) {
		tag = n.Tag
	}
	valueStart := start
	if tag != "" && start < len(text) && text[start] == '!' {
		// The node span begins at the tag token; the value follows it.
		valueStart = start + len(tag)
		for valueStart < len(text) && (text[valueStart] == ' ' || text[valueStart] == '\t') {
			valueStart++
		}
	}

	id := NodeID(len(b.tree.nodes))
	b.tree.nodes = append(b.tree.nodes, node{
		shape:  shape,
		parent: parent,
		value:  n.Value,
		tag:    tag,
		start:  start,
	})

	var children []NodeID
	if shape == ShapeMapping {
		for i := 0; i+1 < len(n.Content); i += 2 {
			eid, err := b.addEntry(n.Content[i], n.Content[i+1], id)
			if err != nil {
				return InvalidNode, err
			}
			children = append(children, eid)
		}
	} else {
		for _, c := range n.Content {
			cid, err := b.add(c, id)
			if err != nil {
				return InvalidNode, err
			}
			children = append(children, cid)
		}
	}
	b.tree.nodes[id].children = children
	b.tree.nodes[id].end = b.endOf(n, start, valueStart, children)
	return id, nil
}

// addEntry inserts the structural key/value wrapper for one mapping
// entry, spanning the key's start through the value's end.
func (b *builder) addEntry(key, value *yaml.Node, parent NodeID) (NodeID, error) {
	id := NodeID(len(b.tree.nodes))
	b.tree.nodes = append(b.tree.nodes, node{
		shape:  ShapeEntry,
		parent: parent,
	})

	kid, err := b.add(key, id)
	if err != nil {
		return InvalidNode, err
	}
	vid, err := b.add(value, id)
	if err != nil {
		return InvalidNode, err
	}

	b.tree.nodes[id].children = []NodeID{kid, vid}
	b.tree.nodes[id].start = b.tree.nodes[kid].start
	b.tree.nodes[id].end = b.tree.nodes[vid].end
	if b.tree.nodes[id].end < b.tree.nodes[id].start {
		b.tree.nodes[id].end = b.tree.nodes[id].start
	}
	return id, nil
}

// endOf computes the byte offset one past a node's source span.
// yaml.v3 only records start marks, so ends are reconstructed from the
// source text: scalars by scanning their token, collections from their
// last child plus any closing delimiter.
func (b *builder) endOf(n *yaml.Node, start, valueStart int, children []NodeID) int {
	text := b.tree.index.Text()

	switch n.Kind {
	case yaml.ScalarNode:
		return scalarEnd(text, valueStart, n)
	case yaml.AliasNode:
		return valueStart + 1 + len(n.Value)
	case yaml.MappingNode, yaml.SequenceNode:
		last := start
		if n.Style&yaml.FlowStyle != 0 {
			// Flow collections include their closing bracket.
			if len(children) > 0 {
				last = b.tree.nodes[children[len(children)-1]].end
			} else {
				last = valueStart + 1
			}
			for last < len(text) {
				switch text[last] {
				case '}', ']':
					return last + 1
				default:
					last++
				}
			}
			return last
		}
		if len(children) > 0 {
			return b.tree.nodes[children[len(children)-1]].end
		}
		return start
	default:
		return start
	}
}

func scalarEnd(text string, start int, n *yaml.Node) int {
	switch n.Style {
	case yaml.DoubleQuotedStyle:
		for i := start + 1; i < len(text); i++ {
			switch text[i] {
			case '\\':
				i++
			case '"':
				return i + 1
			}
		}
		return len(text)
	case yaml.SingleQuotedStyle:
		for i := start + 1; i < len(text); i++ {
			if text[i] == '\'' {
				if i+1 < len(text) && text[i+1] == '\'' {
					i++
					continue
				}
				return i + 1
			}
		}
		return len(text)
	case yaml.LiteralStyle, yaml.FoldedStyle:
		return blockScalarEnd(text, start)
	default:
		return start + len(n.Value)
	}
}

// blockScalarEnd scans a literal/folded block scalar: the header line,
// then every following line that is blank or indented past the header
// line's own indentation.
func blockScalarEnd(text string, headerStart int) int {
	lineStart := headerStart
	for lineStart > 0 && text[lineStart-1] != '\n' {
		lineStart--
	}
	headerIndent := 0
	for lineStart+headerIndent < len(text) && text[lineStart+headerIndent] == ' ' {
		headerIndent++
	}

	i := headerStart
	for i < len(text) && text[i] != '\n' {
		i++
	}
	end := i
	for i < len(text) {
		i++ // past the newline
		indent := 0
		for i < len(text) && text[i] == ' ' {
			i++
			indent++
		}
		if i >= len(text) {
			break
		}
		if text[i] == '\n' {
			continue // blank line stays inside the block
		}
		if indent <= headerIndent {
			break
		}
		for i < len(text) && text[i] != '\n' {
			i++
		}
		end = i
	}
	return end
}
