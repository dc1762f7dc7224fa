// Package refs extracts the logical names a span of template text
// references through the language's reference-expressing constructs.
// Matching is stateless: the compiled patterns are shared, but every
// call scans with its own match slices, so extraction is safe to run
// concurrently across documents.
package refs

import (
	"regexp"
	"sort"
	"strings"

	"github.com/walteh/cfnls/pkg/parser"
)

// identifier is the logical-name grammar: a leading letter, then
// letters, digits, and dots. Dots survive until the attribute suffix
// is stripped; anything else (colons of pseudo values, underscores)
// disqualifies the candidate.
var identifier = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9.]*$`)

// ReferencedNames returns the set of logical names the text
// references, excluding ownerName, reserved property names, and
// built-in pseudo values. The result is deduplicated and
// order-independent.
func ReferencedNames(text, ownerName string, kind parser.SyntaxKind) map[string]struct{} {
	patterns := yamlPatterns
	if kind == parser.SyntaxJSON {
		patterns = jsonPatterns
	}

	names := make(map[string]struct{})
	for _, p := range patterns {
		if !strings.Contains(text, p.gate) {
			continue
		}
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			capture := m[1]
			switch p.mode {
			case capToken:
				accept(names, capture, ownerName)
			case capFirstOfList:
				items := splitList(capture)
				if len(items) > 0 {
					accept(names, items[0], ownerName)
				}
			case capAllOfList:
				for _, item := range splitList(capture) {
					accept(names, item, ownerName)
				}
			}
		}
	}
	return names
}

// SortedNames flattens a name set for deterministic output.
func SortedNames(names map[string]struct{}) []string {
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// accept funnels every pattern's candidates through the one shared
// validation path, so the two grammars cannot drift apart on
// false-positive handling.
func accept(names map[string]struct{}, candidate, ownerName string) {
	name, ok := validate(candidate, ownerName)
	if ok {
		names[name] = struct{}{}
	}
}

func validate(candidate, ownerName string) (string, bool) {
	c := strings.TrimSpace(candidate)
	c = strings.Trim(c, `"'`)
	c = strings.TrimSpace(c)
	if c == "" || strings.HasPrefix(c, "!") {
		// ${!Literal} is the substitution escape, not a reference.
		return "", false
	}
	if isPseudoValue(c) {
		return "", false
	}
	if !identifier.MatchString(c) {
		return "", false
	}
	if i := strings.IndexByte(c, '.'); i >= 0 {
		c = c[:i]
	}
	if c == "" || isReservedProperty(c) || c == ownerName {
		return "", false
	}
	return c, true
}

// splitList breaks a captured list into elements. Block lists split on
// leading-dash lines, flow lists on commas; a flow list formatted
// across lines yields both newlines and commas, so every line is
// comma-split as well.
func splitList(capture string) []string {
	var parts []string
	push := func(s string) {
		s = strings.TrimSpace(s)
		s = strings.TrimPrefix(s, "-")
		s = strings.TrimSpace(s)
		if s != "" {
			parts = append(parts, s)
		}
	}
	for _, line := range strings.Split(capture, "\n") {
		for _, part := range strings.Split(line, ",") {
			push(part)
		}
	}
	return parts
}
