package doctree

import (
	"strconv"
	"strings"
)

// Segment is one step of a document path: either a mapping key or a
// sequence index.
type Segment struct {
	key     string
	index   int
	indexed bool
}

// Key makes a mapping-key segment.
func Key(k string) Segment {
	return Segment{key: k}
}

// Index makes a sequence-index segment.
func Index(i int) Segment {
	return Segment{index: i, indexed: true}
}

// IsIndex reports whether the segment addresses a sequence item.
func (s Segment) IsIndex() bool {
	return s.indexed
}

// KeyName returns the mapping key, "" for index segments.
func (s Segment) KeyName() string {
	return s.key
}

// IndexValue returns the sequence index, -1 for key segments.
func (s Segment) IndexValue() int {
	if !s.indexed {
		return -1
	}
	return s.index
}

func (s Segment) String() string {
	if s.indexed {
		return strconv.Itoa(s.index)
	}
	return s.key
}

// Path addresses a node from the document root. The same path is valid
// for both concrete syntaxes because both normalize to the same node
// shapes.
type Path []Segment

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return "/" + strings.Join(parts, "/")
}

// Properties filters the path down to its semantically meaningful
// steps: mapping keys only, structural sequence positions dropped.
func (p Path) Properties() Path {
	out := make(Path, 0, len(p))
	for _, s := range p {
		if !s.IsIndex() {
			out = append(out, s)
		}
	}
	return out
}

// Equal compares two paths segment by segment.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// ParsePath parses a "/Resources/Bucket/Properties/0" style string.
// All-digit segments become sequence indices.
func ParsePath(s string) Path {
	var p Path
	for _, part := range strings.Split(strings.Trim(s, "/"), "/") {
		if part == "" {
			continue
		}
		if n, err := strconv.Atoi(part); err == nil {
			p = append(p, Index(n))
			continue
		}
		p = append(p, Key(part))
	}
	return p
}
