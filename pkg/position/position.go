// Package position provides line/column places, ranges, and offset math
// over template source text.
package position

import (
	"fmt"
	"sort"
	"strings"
)

// Place is a zero-based line and character position in a document.
type Place struct {
	Line      int
	Character int
}

func (p Place) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Before reports whether p is strictly before q in document order.
func (p Place) Before(q Place) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Character < q.Character
}

// BeforeEq reports whether p is at or before q.
func (p Place) BeforeEq(q Place) bool {
	return p == q || p.Before(q)
}

// Range is a half-open [Start, End) span of a document.
type Range struct {
	Start Place
	End   Place
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// Contains reports whether p falls inside the half-open range. A place
// exactly at End is outside, so of two back-to-back spans the earlier
// one claims the shared boundary.
func (r Range) Contains(p Place) bool {
	return r.Start.BeforeEq(p) && p.Before(r.End)
}

// ContainsInclusive is Contains with a closed end, used for the last
// node of a document where there is no later sibling to claim the
// boundary.
func (r Range) ContainsInclusive(p Place) bool {
	return r.Start.BeforeEq(p) && p.BeforeEq(r.End)
}

// Covers reports whether r fully contains s.
func (r Range) Covers(s Range) bool {
	return r.Start.BeforeEq(s.Start) && s.End.BeforeEq(r.End)
}

// Index maps between byte offsets and places for one immutable text
// snapshot.
type Index struct {
	text        string
	lineOffsets []int
}

// NewIndex builds an offset index over text.
func NewIndex(text string) *Index {
	offsets := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return &Index{text: text, lineOffsets: offsets}
}

// Text returns the indexed snapshot.
func (ix *Index) Text() string {
	return ix.text
}

// OffsetOf converts a place to a byte offset, clamping to the snapshot
// bounds.
func (ix *Index) OffsetOf(p Place) int {
	if p.Line < 0 {
		return 0
	}
	if p.Line >= len(ix.lineOffsets) {
		return len(ix.text)
	}
	off := ix.lineOffsets[p.Line] + p.Character
	if off > len(ix.text) {
		off = len(ix.text)
	}
	if off < 0 {
		off = 0
	}
	return off
}

// PlaceOf converts a byte offset to a place.
func (ix *Index) PlaceOf(offset int) Place {
	if offset < 0 {
		offset = 0
	}
	if offset > len(ix.text) {
		offset = len(ix.text)
	}
	line := sort.Search(len(ix.lineOffsets), func(i int) bool {
		return ix.lineOffsets[i] > offset
	}) - 1
	return Place{Line: line, Character: offset - ix.lineOffsets[line]}
}

// Slice returns the text between two byte offsets, clamped.
func (ix *Index) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(ix.text) {
		end = len(ix.text)
	}
	if start >= end {
		return ""
	}
	return ix.text[start:end]
}

// Splice replaces the byte span [start, end) with replacement and
// returns the new text. Used when applying an incremental edit before
// reparsing.
func (ix *Index) Splice(start, end int, replacement string) string {
	if start < 0 {
		start = 0
	}
	if end > len(ix.text) {
		end = len(ix.text)
	}
	if end < start {
		end = start
	}
	var sb strings.Builder
	sb.Grow(len(ix.text) - (end - start) + len(replacement))
	sb.WriteString(ix.text[:start])
	sb.WriteString(replacement)
	sb.WriteString(ix.text[end:])
	return sb.String()
}
