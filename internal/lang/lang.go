// Package lang identifies a document's language from its file name and
// content using chroma's lexer registry.
package lang

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// PlainText is the language identifier for unrecognised documents.
const PlainText = "plaintext"

// languageIDs maps chroma lexer names to LSP language identifiers where the
// two differ beyond case.
var languageIDs = map[string]string{
	"bash":       "shellscript",
	"c++":        "cpp",
	"c#":         "csharp",
	"python 2":   "python",
	"plaintext":  PlainText,
	"plain text": PlainText,
	"text":       PlainText,
	"tsx":        "typescriptreact",
}

// Lexer picks a chroma lexer: by file name, then by content analysis, then
// the plain-text fallback.
func Lexer(path, content string) chroma.Lexer {
	var lexer chroma.Lexer
	if path != "" {
		lexer = lexers.Match(filepath.Base(path))
	}
	if lexer == nil {
		lexer = lexers.Analyse(content)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return lexer
}

// Detect returns the LSP language identifier for a document.
func Detect(path, content string) string {
	return FromLexer(Lexer(path, content))
}

// FromLexer converts a chroma lexer to an LSP language identifier.
func FromLexer(lexer chroma.Lexer) string {
	if lexer == nil || lexer.Config() == nil {
		return PlainText
	}
	name := strings.ToLower(lexer.Config().Name)
	if id, ok := languageIDs[name]; ok {
		return id
	}
	return strings.ReplaceAll(name, " ", "")
}
