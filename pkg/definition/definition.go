// Package definition implements definition lookup on top of the
// context layer: queried text in, defining locations out.
package definition

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/cfnls/pkg/doctree"
	"github.com/walteh/cfnls/pkg/position"
	"github.com/walteh/cfnls/pkg/tmplctx"
)

// Location is one defining occurrence of a logical name.
type Location struct {
	Name    string
	Section doctree.SectionKind
	Range   position.Range
}

// Resolve strips the queried text down to a base logical name and
// looks it up across the related-entity maps. Zero, one, or many
// locations come back; a name defined in several sections yields one
// per section.
func Resolve(ctx context.Context, queried string, rc *tmplctx.RelatedContext) []Location {
	if rc == nil {
		return nil
	}

	name := BaseName(queried)
	if name == "" {
		return nil
	}

	var out []Location
	for section, m := range rc.Related {
		c, ok := m[name]
		if !ok {
			continue
		}
		out = append(out, Location{
			Name:    name,
			Section: section,
			Range:   c.EntityRange(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Section < out[j].Section })

	zerolog.Ctx(ctx).Debug().
		Str("queried", queried).
		Str("name", name).
		Int("locations", len(out)).
		Msg("definition lookup")
	return out
}

// BaseName reduces a queried token to the logical name it refers to:
// a "${Foo}" or "${Foo.Bar}" substitution wrapper is unwrapped and a
// "Foo.Bar"-style attribute suffix is stripped, leaving "Foo".
func BaseName(queried string) string {
	s := strings.TrimSpace(queried)
	s = strings.Trim(s, `"'`)
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		s = s[2 : len(s)-1]
	}
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	return s
}
