package entity

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/cfnls/pkg/doctree"
	"github.com/walteh/cfnls/pkg/parser"
)

// Located is one indexed entity: its decoded variant plus the address
// of its definition in the tree.
type Located struct {
	Name         string
	Entity       Entity
	Node         parser.NodeID // the entry's value node
	EntityRoot   parser.NodeID // the entry wrapper spanning name and body
	Path         doctree.Path
	PropertyPath doctree.Path
}

// IndexSection builds the name index for one section, computed fresh
// from the current tree. Callers may memoize by (version, section) as
// an optimization; correctness never depends on it.
func IndexSection(ctx context.Context, st *doctree.SyntaxTree, kind doctree.SectionKind) map[string]Located {
	out := make(map[string]Located)

	sections := st.TopLevelSections([]doctree.SectionKind{kind})
	body, ok := sections[kind]
	if !ok {
		return out
	}

	t := st.Tree()
	switch t.Shape(body) {
	case parser.ShapeMapping:
		for _, e := range t.Entries(body) {
			name := t.ScalarValue(e.Key)
			if name == "" {
				continue
			}
			path := doctree.Path{doctree.Key(kind.Key()), doctree.Key(name)}
			out[name] = Located{
				Name:         name,
				Entity:       Decode(t, kind, name, e.Value),
				Node:         e.Value,
				EntityRoot:   e.Node,
				Path:         path,
				PropertyPath: path.Properties(),
			}
		}
	case parser.ShapeScalar:
		// Transform is the one section whose body may be a bare
		// scalar (or list) of macro names rather than a mapping.
		name := t.ScalarValue(body)
		if name != "" {
			path := doctree.Path{doctree.Key(kind.Key())}
			out[name] = Located{
				Name:         name,
				Entity:       Decode(t, kind, name, body),
				Node:         body,
				EntityRoot:   body,
				Path:         path,
				PropertyPath: path,
			}
		}
	case parser.ShapeSequence:
		for i, item := range t.Items(body) {
			if t.Shape(item) != parser.ShapeScalar {
				continue
			}
			name := t.ScalarValue(item)
			if name == "" {
				continue
			}
			path := doctree.Path{doctree.Key(kind.Key()), doctree.Index(i)}
			out[name] = Located{
				Name:         name,
				Entity:       Decode(t, kind, name, item),
				Node:         item,
				EntityRoot:   item,
				Path:         path,
				PropertyPath: path.Properties(),
			}
		}
	}

	zerolog.Ctx(ctx).Trace().
		Stringer("section", kind).
		Int("entities", len(out)).
		Msg("indexed section")
	return out
}
