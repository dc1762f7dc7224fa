package parser

import (
	"github.com/walteh/cfnls/pkg/position"
)

// Entry is one key/value pair of a mapping node. Node is the
// structural wrapper spanning the whole entry.
type Entry struct {
	Node  NodeID
	Key   NodeID
	Value NodeID
}

// Kind returns the concrete syntax this tree was parsed under.
func (t *Tree) Kind() SyntaxKind {
	return t.kind
}

// Index returns the offset index of the source snapshot.
func (t *Tree) Index() *position.Index {
	return t.index
}

// Root returns the document's top node.
func (t *Tree) Root() NodeID {
	return t.root
}

// Valid reports whether id is a live handle into this tree.
func (t *Tree) Valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Shape returns the normalized shape of a node.
func (t *Tree) Shape(id NodeID) Shape {
	return t.nodes[id].shape
}

// Parent returns the parent handle, or InvalidNode for the root.
func (t *Tree) Parent(id NodeID) NodeID {
	return t.nodes[id].parent
}

// Children returns a node's children in document order. A mapping's
// children are its entry wrappers; an entry's children are its key and
// value.
func (t *Tree) Children(id NodeID) []NodeID {
	return t.nodes[id].children
}

// Entries returns a mapping node's entries in document order. Returns
// nil for non-mapping nodes.
func (t *Tree) Entries(id NodeID) []Entry {
	if t.nodes[id].shape != ShapeMapping {
		return nil
	}
	kids := t.nodes[id].children
	entries := make([]Entry, 0, len(kids))
	for _, eid := range kids {
		pair := t.nodes[eid].children
		if len(pair) != 2 {
			continue
		}
		entries = append(entries, Entry{Node: eid, Key: pair[0], Value: pair[1]})
	}
	return entries
}

// EntryOf decomposes an entry wrapper node into its key and value.
func (t *Tree) EntryOf(id NodeID) (Entry, bool) {
	if t.nodes[id].shape != ShapeEntry || len(t.nodes[id].children) != 2 {
		return Entry{}, false
	}
	return Entry{Node: id, Key: t.nodes[id].children[0], Value: t.nodes[id].children[1]}, true
}

// Items returns a sequence node's items, nil for non-sequence nodes.
func (t *Tree) Items(id NodeID) []NodeID {
	if t.nodes[id].shape != ShapeSequence {
		return nil
	}
	return t.nodes[id].children
}

// Lookup finds the value node for key in a mapping node.
func (t *Tree) Lookup(id NodeID, key string) (NodeID, bool) {
	for _, e := range t.Entries(id) {
		if t.ScalarValue(e.Key) == key {
			return e.Value, true
		}
	}
	return InvalidNode, false
}

// ScalarValue returns a scalar node's decoded value, "" otherwise.
func (t *Tree) ScalarValue(id NodeID) string {
	return t.nodes[id].value
}

// Tag returns a node's short-form tag ("!Ref", "!Sub", ...) or "".
func (t *Tree) Tag(id NodeID) string {
	return t.nodes[id].tag
}

// OffsetsOf returns the byte span [start, end) of a node's source text.
func (t *Tree) OffsetsOf(id NodeID) (start, end int) {
	return t.nodes[id].start, t.nodes[id].end
}

// RangeOf converts a node's span to line/character places.
func (t *Tree) RangeOf(id NodeID) position.Range {
	n := t.nodes[id]
	return position.Range{
		Start: t.index.PlaceOf(n.start),
		End:   t.index.PlaceOf(n.end),
	}
}

// TextOf slices the source text exactly spanning the node.
func (t *Tree) TextOf(id NodeID) string {
	n := t.nodes[id]
	return t.index.Slice(n.start, n.end)
}
