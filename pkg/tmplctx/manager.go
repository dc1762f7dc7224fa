package tmplctx

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/cfnls/pkg/doctree"
	"github.com/walteh/cfnls/pkg/position"
)

// Manager is the façade external features call. Every lookup returns
// an absent value on failure, never an error or a panic: ordinary
// misses are an expected outcome of querying unpopulated areas, and
// anything the parser collaborator throws is caught, logged, and
// degraded.
type Manager struct {
	docs *doctree.Manager
}

func NewManager(docs *doctree.Manager) *Manager {
	return &Manager{docs: docs}
}

// Documents exposes the underlying tree registry for open/edit/close.
func (m *Manager) Documents() *doctree.Manager {
	return m.docs
}

// GetContext resolves the bare context at a position.
func (m *Manager) GetContext(ctx context.Context, id doctree.DocumentID, pos position.Place) (result *Context) {
	defer m.recoverLookup(ctx, id, &result)

	st, ok := m.docs.Get(id)
	if !ok {
		zerolog.Ctx(ctx).Warn().
			Str("document", string(id)).
			Msg("context requested for unopened document")
		return nil
	}

	node, ok := st.NodeAt(pos)
	if !ok {
		return nil
	}

	c, ok := newContext(st, node)
	if !ok {
		zerolog.Ctx(ctx).Debug().
			Str("document", string(id)).
			Stringer("position", pos).
			Msg("node resolves outside any recognized section")
		return nil
	}
	return &c
}

// GetContextAndRelated resolves the context at a position plus the
// reference graph scoped to it.
func (m *Manager) GetContextAndRelated(ctx context.Context, id doctree.DocumentID, pos position.Place, fullEntitySearch bool) (result *RelatedContext) {
	defer func() {
		if r := recover(); r != nil {
			zerolog.Ctx(ctx).Error().
				Str("document", string(id)).
				Stringer("position", pos).
				Any("panic", r).
				Msg("recovered panic during related-context lookup")
			result = nil
		}
	}()

	base := m.GetContext(ctx, id, pos)
	if base == nil {
		return nil
	}

	st, ok := m.docs.Get(id)
	if !ok {
		return nil
	}
	return newRelatedContext(ctx, st, *base, fullEntitySearch)
}

// GetContextFromPath resolves a context from a structural path
// captured earlier. When the path overruns the current tree the
// deepest matching node is used and fullyResolved is false, so a
// caller can decide whether a stale-but-useful result is acceptable.
func (m *Manager) GetContextFromPath(ctx context.Context, id doctree.DocumentID, path doctree.Path) (result *Context, fullyResolved bool) {
	defer m.recoverLookup(ctx, id, &result)

	st, ok := m.docs.Get(id)
	if !ok {
		zerolog.Ctx(ctx).Warn().
			Str("document", string(id)).
			Msg("path context requested for unopened document")
		return nil, false
	}

	node, fullyResolved := st.NodeByPath(path)
	if !st.Tree().Valid(node) {
		return nil, false
	}

	c, ok := newContext(st, node)
	if !ok {
		zerolog.Ctx(ctx).Debug().
			Str("document", string(id)).
			Stringer("path", path).
			Bool("fully_resolved", fullyResolved).
			Msg("path resolves outside any recognized section")
		return nil, fullyResolved
	}
	return &c, fullyResolved
}

func (m *Manager) recoverLookup(ctx context.Context, id doctree.DocumentID, result **Context) {
	if r := recover(); r != nil {
		zerolog.Ctx(ctx).Error().
			Str("document", string(id)).
			Any("panic", r).
			Msg("recovered panic during context lookup")
		*result = nil
	}
}
