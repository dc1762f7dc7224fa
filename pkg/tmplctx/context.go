// Package tmplctx assembles semantic contexts: which entity owns a
// location, its address, and the entities it references.
package tmplctx

import (
	"context"

	"github.com/walteh/cfnls/pkg/doctree"
	"github.com/walteh/cfnls/pkg/entity"
	"github.com/walteh/cfnls/pkg/parser"
	"github.com/walteh/cfnls/pkg/position"
	"github.com/walteh/cfnls/pkg/refs"
)

// Context is the semantic address of one queried location. It is a
// transient per-request value over a fixed tree snapshot; nothing
// caches or mutates it.
type Context struct {
	Node         parser.NodeID
	Path         doctree.Path
	PropertyPath doctree.Path
	Syntax       parser.SyntaxKind
	Section      doctree.SectionKind
	EntityRoot   parser.NodeID

	tree *doctree.SyntaxTree
}

// newContext resolves a node's address. A node whose ancestry never
// reaches a recognized section yields no Context rather than a
// partial one.
func newContext(st *doctree.SyntaxTree, node parser.NodeID) (Context, bool) {
	res, ok := st.PathAndEntityOf(node)
	if !ok {
		return Context{}, false
	}
	return Context{
		Node:         node,
		Path:         res.Path,
		PropertyPath: res.PropertyPath,
		Syntax:       st.Kind(),
		Section:      res.Section,
		EntityRoot:   res.EntityRoot,
		tree:         st,
	}, true
}

// Tree returns the snapshot this context was resolved against.
func (c Context) Tree() *doctree.SyntaxTree {
	return c.tree
}

// EntityName is the owning entity's logical name: the first path
// segment under the owning section.
func (c Context) EntityName() string {
	if len(c.Path) < 2 {
		return ""
	}
	return c.Path[1].KeyName()
}

// Range is the queried node's source span.
func (c Context) Range() position.Range {
	return c.tree.Tree().RangeOf(c.Node)
}

// EntityRange spans the owning entity's whole definition, name
// included.
func (c Context) EntityRange() position.Range {
	return c.tree.Tree().RangeOf(c.EntityRoot)
}

// Equal compares two contexts by value against the same tree.
func (c Context) Equal(o Context) bool {
	return c.Node == o.Node &&
		c.EntityRoot == o.EntityRoot &&
		c.Section == o.Section &&
		c.Syntax == o.Syntax &&
		c.Path.Equal(o.Path) &&
		c.PropertyPath.Equal(o.PropertyPath)
}

// RelatedContext is a Context plus the resolved reference graph scoped
// to the queried location: per section, the referenced names that
// actually resolve to a definition.
type RelatedContext struct {
	Context
	Related map[doctree.SectionKind]map[string]Context
}

// newRelatedContext extracts references from the chosen scan span and
// resolves them against each candidate section's entity index. With
// fullEntitySearch the span is the whole owning entity's text;
// otherwise just the queried node's text, the cheaper scope used by
// low-latency features.
func newRelatedContext(ctx context.Context, st *doctree.SyntaxTree, base Context, fullEntitySearch bool) *RelatedContext {
	t := st.Tree()

	span := t.TextOf(base.Node)
	if fullEntitySearch {
		span = t.TextOf(base.EntityRoot)
	}

	names := refs.ReferencedNames(span, base.EntityName(), st.Kind())

	related := make(map[doctree.SectionKind]map[string]Context)
	if len(names) > 0 {
		for _, section := range doctree.ReferenceTargetSections() {
			index := entity.IndexSection(ctx, st, section)
			for name := range names {
				loc, ok := index[name]
				if !ok {
					continue
				}
				if related[section] == nil {
					related[section] = make(map[string]Context)
				}
				related[section][name] = Context{
					Node:         loc.Node,
					Path:         loc.Path,
					PropertyPath: loc.PropertyPath,
					Syntax:       st.Kind(),
					Section:      section,
					EntityRoot:   loc.EntityRoot,
					tree:         st,
				}
			}
		}
	}

	return &RelatedContext{Context: base, Related: related}
}

// RelatedNames lists the resolved names per section, sorted, mainly
// for logging and CLI output.
func (rc *RelatedContext) RelatedNames() map[doctree.SectionKind][]string {
	out := make(map[doctree.SectionKind][]string, len(rc.Related))
	for section, m := range rc.Related {
		set := make(map[string]struct{}, len(m))
		for name := range m {
			set[name] = struct{}{}
		}
		out[section] = refs.SortedNames(set)
	}
	return out
}
