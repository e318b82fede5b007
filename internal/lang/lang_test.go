package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		path     string
		content  string
		expected string
	}{
		{"main.go", "package main\n", "go"},
		{"/src/app.py", "", "python"},
		{"index.js", "", "javascript"},
		{"lib.rs", "", "rust"},
		{"main.c", "", "c"},
		{"Main.java", "", "java"},
		{"widget.cpp", "", "cpp"},
		{"run.sh", "", "shellscript"},
		{"notes.unknownext", "just some words", PlainText},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, Detect(tt.path, tt.content))
		})
	}
}

func TestDetectByContent(t *testing.T) {
	assert.Equal(t, "python", Detect("", "#!/usr/bin/env python3\nprint('hi')\n"))
}

func TestLexerFallback(t *testing.T) {
	lexer := Lexer("", "")
	assert.NotNil(t, lexer)
	assert.Equal(t, PlainText, FromLexer(lexer))
	assert.Equal(t, PlainText, FromLexer(nil))
}
