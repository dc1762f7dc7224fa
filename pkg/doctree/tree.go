// Package doctree owns one normalized syntax tree per open document
// and resolves positions, paths, and owning entities against it.
package doctree

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/cfnls/pkg/parser"
	"github.com/walteh/cfnls/pkg/position"
	"gitlab.com/tozd/go/errors"
)

// SyntaxTree is the live tree for one open document. It is mutated in
// place by edits and discarded on close; the host serializes edits and
// reads per document, so no locking happens here.
type SyntaxTree struct {
	kind    parser.SyntaxKind
	index   *position.Index
	tree    *parser.Tree
	version int
	stale   bool
}

// NewSyntaxTree parses text and wraps the result for querying.
func NewSyntaxTree(ctx context.Context, text string, kind parser.SyntaxKind) (*SyntaxTree, error) {
	t, err := parser.Parse(ctx, text, kind)
	if err != nil {
		return nil, errors.Errorf("building syntax tree: %w", err)
	}
	return &SyntaxTree{
		kind:    kind,
		index:   t.Index(),
		tree:    t,
		version: 1,
	}, nil
}

// Kind returns the document's concrete syntax.
func (st *SyntaxTree) Kind() parser.SyntaxKind {
	return st.kind
}

// Tree exposes the underlying node arena.
func (st *SyntaxTree) Tree() *parser.Tree {
	return st.tree
}

// Text returns the current source snapshot, which may be newer than
// the last successfully parsed tree when Stale is true.
func (st *SyntaxTree) Text() string {
	return st.index.Text()
}

// Version counts applied edits, starting at 1 on open.
func (st *SyntaxTree) Version() int {
	return st.version
}

// Stale reports whether the latest edit failed to parse, leaving the
// tree one snapshot behind the text.
func (st *SyntaxTree) Stale() bool {
	return st.stale
}

// applyEdit splices the edit into the current text and reparses. When
// the edited text no longer parses, the text still advances (edit
// ranges are relative to the prior snapshot) but the last good tree is
// kept and the document is marked stale.
func (st *SyntaxTree) applyEdit(ctx context.Context, rng position.Range, newText string) error {
	start := st.index.OffsetOf(rng.Start)
	end := st.index.OffsetOf(rng.End)
	if end < start {
		return errors.Errorf("edit range %s is inverted", rng)
	}

	spliced := st.index.Splice(start, end, newText)
	st.index = position.NewIndex(spliced)
	st.version++

	t, err := parser.Parse(ctx, spliced, st.kind)
	if err != nil {
		st.stale = true
		zerolog.Ctx(ctx).Debug().
			Err(err).
			Int("version", st.version).
			Msg("edit applied but document no longer parses, keeping last good tree")
		return nil
	}
	st.tree = t
	st.stale = false
	return nil
}

// NodeAt finds the smallest node whose span contains pos. When pos
// sits exactly on the boundary between two adjacent siblings, the
// earlier sibling wins.
func (st *SyntaxTree) NodeAt(pos position.Place) (parser.NodeID, bool) {
	t := st.tree
	root := t.Root()
	if !t.Valid(root) || !t.RangeOf(root).ContainsInclusive(pos) {
		return parser.InvalidNode, false
	}

	cur := root
	for {
		descended := false
		for _, child := range t.Children(cur) {
			// Closed-end containment: a position exactly at a child's
			// end belongs to that child, so the earlier of two
			// back-to-back siblings claims the shared boundary.
			if t.RangeOf(child).ContainsInclusive(pos) {
				cur = child
				descended = true
				break
			}
		}
		if !descended {
			return cur, true
		}
	}
}

// NodeByPath walks path through mapping entries and sequence items.
// If the path overruns the actual tree, the deepest node reached is
// returned with fullyResolved=false; stale paths captured before an
// edit still produce their best prefix.
func (st *SyntaxTree) NodeByPath(path Path) (parser.NodeID, bool) {
	t := st.tree
	cur := t.Root()
	if !t.Valid(cur) {
		return parser.InvalidNode, false
	}

	for _, seg := range path {
		if seg.IsIndex() {
			items := t.Items(cur)
			i := seg.IndexValue()
			if i < 0 || i >= len(items) {
				return cur, false
			}
			cur = items[i]
			continue
		}
		if t.Shape(cur) != parser.ShapeMapping {
			return cur, false
		}
		next, ok := t.Lookup(cur, seg.KeyName())
		if !ok {
			return cur, false
		}
		cur = next
	}
	return cur, true
}

// Resolution is the address of a node: its full path, the filtered
// property path, and the entry subtree of the entity that owns it.
type Resolution struct {
	Path         Path
	PropertyPath Path
	Section      SectionKind
	EntityRoot   parser.NodeID
}

// PathAndEntityOf walks a node's ancestry to the root, collecting one
// segment per entry or sequence step, and identifies the owning
// entity: the entry whose parent is a recognized top-level section's
// body. Returns false when the ancestry never reaches a recognized
// section.
func (st *SyntaxTree) PathAndEntityOf(id parser.NodeID) (Resolution, bool) {
	t := st.tree
	if !t.Valid(id) {
		return Resolution{}, false
	}

	var rev Path
	var entryChain []parser.NodeID // entry wrappers, node-most first

	cur := id
	if t.Shape(id) == parser.ShapeEntry {
		e, ok := t.EntryOf(id)
		if !ok {
			return Resolution{}, false
		}
		rev = append(rev, Key(t.ScalarValue(e.Key)))
		entryChain = append(entryChain, id)
	}

	for {
		p := t.Parent(cur)
		if p == parser.InvalidNode {
			break
		}
		switch t.Shape(p) {
		case parser.ShapeEntry:
			e, ok := t.EntryOf(p)
			if !ok {
				return Resolution{}, false
			}
			// Key and value nodes both address the entry by its key.
			rev = append(rev, Key(t.ScalarValue(e.Key)))
			entryChain = append(entryChain, p)
		case parser.ShapeSequence:
			idx := -1
			for i, c := range t.Children(p) {
				if c == cur {
					idx = i
					break
				}
			}
			if idx < 0 {
				return Resolution{}, false
			}
			rev = append(rev, Index(idx))
		case parser.ShapeMapping:
			// The mapping itself contributes no segment; its entry
			// wrapper already did.
		default:
			return Resolution{}, false
		}
		cur = p
	}

	if len(rev) == 0 || len(entryChain) == 0 {
		return Resolution{}, false
	}

	path := make(Path, len(rev))
	for i, s := range rev {
		path[len(rev)-1-i] = s
	}

	if path[0].IsIndex() {
		return Resolution{}, false
	}
	section, ok := SectionKindForKey(path[0].KeyName())
	if !ok {
		return Resolution{}, false
	}

	// The root-most entry in the chain is the section entry; the one
	// below it spans the owning entity's name and body. A scalar- or
	// sequence-bodied section (Transform's macro list) has no entry
	// per entity, so the section entry itself is the root.
	sectionEntry := entryChain[len(entryChain)-1]
	if t.Parent(sectionEntry) != t.Root() {
		return Resolution{}, false
	}
	entityRoot := sectionEntry
	if len(entryChain) >= 2 {
		entityRoot = entryChain[len(entryChain)-2]
	}

	return Resolution{
		Path:         path,
		PropertyPath: path.Properties(),
		Section:      section,
		EntityRoot:   entityRoot,
	}, true
}

// TopLevelSections locates the root-level section bodies for the
// requested kinds. Sections absent from the document are simply
// missing from the result.
func (st *SyntaxTree) TopLevelSections(kinds []SectionKind) map[SectionKind]parser.NodeID {
	t := st.tree
	out := make(map[SectionKind]parser.NodeID, len(kinds))
	root := t.Root()
	if !t.Valid(root) || t.Shape(root) != parser.ShapeMapping {
		return out
	}

	want := make(map[SectionKind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}

	for _, e := range t.Entries(root) {
		kind, ok := SectionKindForKey(t.ScalarValue(e.Key))
		if !ok || !want[kind] {
			continue
		}
		out[kind] = e.Value
	}
	return out
}
