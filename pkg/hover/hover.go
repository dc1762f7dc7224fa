// Package hover provides functionality for generating hover information.
package hover

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/cfnls/pkg/doctree"
	"github.com/walteh/cfnls/pkg/entity"
	"github.com/walteh/cfnls/pkg/position"
	"github.com/walteh/cfnls/pkg/tmplctx"
	"gitlab.com/tozd/go/errors"
)

// HoverInfo represents the information to be displayed in a hover tooltip.
type HoverInfo struct {
	// Content is the markdown content to display
	Content []string
	// Range is the span in the document that this hover applies to
	Range position.Range
}

// FormatHoverResponse renders one entity as markdown.
func FormatHoverResponse(ctx context.Context, c *tmplctx.Context, e entity.Entity) (*HoverInfo, error) {
	if c == nil {
		return nil, errors.New("context cannot be nil")
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("**%s** `%s`", c.Section, c.EntityName()))

	switch v := e.(type) {
	case entity.Resource:
		sb.WriteString(fmt.Sprintf("\n\nType: `%s`", v.Type))
		if v.Condition != "" {
			sb.WriteString(fmt.Sprintf("\n\nCondition: `%s`", v.Condition))
		}
		if len(v.DependsOn) > 0 {
			sb.WriteString(fmt.Sprintf("\n\nDepends on: `%s`", strings.Join(v.DependsOn, "`, `")))
		}
	case entity.Parameter:
		sb.WriteString(fmt.Sprintf("\n\nType: `%s`", v.Type))
		if v.Default != "" {
			sb.WriteString(fmt.Sprintf("\n\nDefault: `%s`", v.Default))
		}
	case entity.ForEachResource:
		sb.WriteString(fmt.Sprintf("\n\nLoop variable: `%s`", v.LoopName))
	case entity.Output:
		if v.Export != "" {
			sb.WriteString(fmt.Sprintf("\n\nExport: `%s`", v.Export))
		}
	}

	return &HoverInfo{
		Content: []string{sb.String()},
		Range:   c.EntityRange(),
	}, nil
}

// BuildHoverResponse resolves the entity owning a position and renders
// it. A position that owns no entity yields nil without error; hover is
// best effort.
func BuildHoverResponse(ctx context.Context, mgr *tmplctx.Manager, id doctree.DocumentID, pos position.Place) (*HoverInfo, error) {
	c := mgr.GetContext(ctx, id, pos)
	if c == nil {
		return nil, nil
	}

	zerolog.Ctx(ctx).Debug().
		Stringer("position", pos).
		Stringer("section", c.Section).
		Str("entity", c.EntityName()).
		Msg("building hover")

	st := c.Tree()
	index := entity.IndexSection(ctx, st, c.Section)
	loc, ok := index[c.EntityName()]
	if !ok {
		return nil, nil
	}

	info, err := FormatHoverResponse(ctx, c, loc.Entity)
	if err != nil {
		return nil, errors.Errorf("formatting hover response: %w", err)
	}
	return info, nil
}
