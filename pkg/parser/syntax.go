package parser

import (
	"path/filepath"
	"strings"
)

// SyntaxKind identifies which concrete syntax a document is written in.
type SyntaxKind int

const (
	SyntaxYAML SyntaxKind = iota
	SyntaxJSON
)

func (k SyntaxKind) String() string {
	switch k {
	case SyntaxJSON:
		return "json"
	case SyntaxYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// DetectSyntax guesses the concrete syntax of a document from its
// filename extension, falling back to sniffing the first non-blank
// byte of the content.
func DetectSyntax(filename, text string) SyntaxKind {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return SyntaxJSON
	case ".yaml", ".yml", ".template":
		return SyntaxYAML
	}
	trimmed := strings.TrimLeft(text, " \t\r\n")
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return SyntaxJSON
	}
	return SyntaxYAML
}
