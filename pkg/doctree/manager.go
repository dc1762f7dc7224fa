package doctree

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/cfnls/pkg/parser"
	"github.com/walteh/cfnls/pkg/position"
	"gitlab.com/tozd/go/errors"
)

// DocumentID identifies one open document, typically its URI.
type DocumentID string

type openDocument struct {
	st      *SyntaxTree
	session uuid.UUID
}

// Manager is the registry of syntax trees keyed by document identity.
// Edits for one document must arrive in order; each edit's range is
// relative to the snapshot left by the previous one.
type Manager struct {
	docs map[DocumentID]*openDocument
}

func NewManager() *Manager {
	return &Manager{docs: make(map[DocumentID]*openDocument)}
}

// Open parses text and starts tracking the document. Reopening an
// already-open id replaces its tree.
func (m *Manager) Open(ctx context.Context, id DocumentID, text string, kind parser.SyntaxKind) error {
	st, err := NewSyntaxTree(ctx, text, kind)
	if err != nil {
		return errors.Errorf("opening document %s: %w", id, err)
	}

	session := uuid.New()
	m.docs[id] = &openDocument{st: st, session: session}

	zerolog.Ctx(ctx).Debug().
		Str("document", string(id)).
		Str("session", session.String()).
		Stringer("syntax", kind).
		Msg("document opened")
	return nil
}

// ApplyEdit splices one incremental edit into the document and
// reparses. Returns an error only for unknown documents or inverted
// ranges; a snapshot that no longer parses leaves the document stale
// rather than failing.
func (m *Manager) ApplyEdit(ctx context.Context, id DocumentID, rng position.Range, newText string) error {
	doc, ok := m.docs[id]
	if !ok {
		return errors.Errorf("edit for unopened document %s", id)
	}

	if err := doc.st.applyEdit(ctx, rng, newText); err != nil {
		return errors.Errorf("applying edit to %s: %w", id, err)
	}

	zerolog.Ctx(ctx).Trace().
		Str("document", string(id)).
		Str("session", doc.session.String()).
		Int("version", doc.st.Version()).
		Bool("stale", doc.st.Stale()).
		Msg("edit applied")
	return nil
}

// Get returns the live tree for an open document.
func (m *Manager) Get(id DocumentID) (*SyntaxTree, bool) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, false
	}
	return doc.st, true
}

// Close discards the document's tree.
func (m *Manager) Close(ctx context.Context, id DocumentID) {
	doc, ok := m.docs[id]
	if !ok {
		return
	}
	delete(m.docs, id)
	zerolog.Ctx(ctx).Debug().
		Str("document", string(id)).
		Str("session", doc.session.String()).
		Msg("document closed")
}
