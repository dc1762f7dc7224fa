// Package symbols lists a document's named entities for outline and
// symbol features.
package symbols

import (
	"context"
	"sort"

	"github.com/walteh/cfnls/pkg/doctree"
	"github.com/walteh/cfnls/pkg/entity"
	"github.com/walteh/cfnls/pkg/position"
)

// Symbol is one named entity occurrence.
type Symbol struct {
	Name    string
	Section doctree.SectionKind
	Kind    entity.Kind
	Detail  string
	Range   position.Range
}

// DocumentSymbols indexes every recognized section and returns its
// entities in document order. Detail carries the most useful
// kind-specific field (a resource's type, a parameter's type).
func DocumentSymbols(ctx context.Context, st *doctree.SyntaxTree) []Symbol {
	var out []Symbol

	for _, section := range doctree.SectionKinds() {
		for _, loc := range entity.IndexSection(ctx, st, section) {
			out = append(out, Symbol{
				Name:    loc.Name,
				Section: section,
				Kind:    loc.Entity.Kind(),
				Detail:  detailOf(loc.Entity),
				Range:   st.Tree().RangeOf(loc.EntityRoot),
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Range.Start != out[j].Range.Start {
			return out[i].Range.Start.Before(out[j].Range.Start)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func detailOf(e entity.Entity) string {
	switch v := e.(type) {
	case entity.Resource:
		return v.Type
	case entity.Parameter:
		return v.Type
	case entity.ForEachResource:
		return v.LoopName
	default:
		return ""
	}
}
