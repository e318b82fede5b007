package syntax

import (
	"context"
	"testing"

	"github.com/avitaltamir/vibeselect/internal/expand"
	"github.com/avitaltamir/vibeselect/internal/textrange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const prose = "first line\n\ncall(alpha, beta)\nnext line\n"

func TestDocumentConversions(t *testing.T) {
	d := newDocument("aé😀b\nxy")

	assert.Equal(t, 0, d.offset(textrange.Position{}))
	assert.Equal(t, 3, d.offset(textrange.Position{Line: 0, Character: 2}))
	assert.Equal(t, 7, d.offset(textrange.Position{Line: 0, Character: 4}))
	assert.Equal(t, 9, d.offset(textrange.Position{Line: 1, Character: 0}))
	assert.Equal(t, len(d.text), d.offset(textrange.Position{Line: 9, Character: 0}), "past the end clamps")

	assert.Equal(t, textrange.Position{Line: 0, Character: 4}, d.position(7))
	assert.Equal(t, textrange.Position{Line: 1, Character: 1}, d.position(10))
	assert.Equal(t, textrange.Position{Line: 1, Character: 2}, d.end())

	pt := d.point(textrange.Position{Line: 0, Character: 4})
	assert.Equal(t, uint32(0), pt.Row)
	assert.Equal(t, uint32(7), pt.Column)
	assert.Equal(t, textrange.Position{Line: 0, Character: 4}, d.fromPoint(pt))
}

func TestTextualChain(t *testing.T) {
	s := NewSelector()
	defer s.Close()

	chain := s.Chain(context.Background(), prose, "plaintext", textrange.At(textrange.Position{Line: 2, Character: 6}))

	expected := textrange.Chain{
		textrange.NewRange(2, 5, 2, 10), // alpha
		textrange.NewRange(2, 5, 2, 16), // bracket contents
		textrange.NewRange(2, 4, 2, 17), // with brackets
		textrange.NewRange(2, 0, 2, 17), // line
		textrange.NewRange(2, 0, 3, 9),  // paragraph
		textrange.NewRange(0, 0, 4, 0),  // document
	}
	assert.Equal(t, expected, chain)
	assert.True(t, chain.Nested())
}

func TestTextualChainIndentedLine(t *testing.T) {
	s := NewSelector()
	defer s.Close()

	text := "if x {\n    go()\n}"
	chain := s.Chain(context.Background(), text, "", textrange.NewRange(1, 4, 1, 6))

	assert.Contains(t, chain, textrange.NewRange(1, 4, 1, 8), "trimmed line")
	assert.Contains(t, chain, textrange.NewRange(1, 0, 1, 8), "full line")
	assert.Contains(t, chain, textrange.NewRange(0, 6, 2, 0), "brace contents")
	assert.Equal(t, textrange.NewRange(0, 0, 2, 1), chain[len(chain)-1])
	assert.True(t, chain.Nested())
}

func TestTreeChainGo(t *testing.T) {
	s := NewSelector()
	defer s.Close()

	src := "package main\n\nfunc main() {\n\tx := 1\n}\n"
	chain := s.Chain(context.Background(), src, "go", textrange.At(textrange.Position{Line: 3, Character: 1}))

	require.NotEmpty(t, chain)
	assert.Equal(t, textrange.NewRange(3, 1, 3, 2), chain[0], "identifier x")
	assert.Contains(t, chain, textrange.NewRange(3, 1, 3, 7), "short variable declaration")
	assert.Contains(t, chain, textrange.NewRange(2, 0, 4, 1), "function declaration")
	assert.Equal(t, textrange.NewRange(0, 0, 5, 0), chain[len(chain)-1])
	assert.True(t, chain.Nested())
}

func TestSupported(t *testing.T) {
	for _, language := range []string{"go", "python", "javascript", "rust", "c", "java"} {
		assert.True(t, Supported(language), language)
	}
	assert.False(t, Supported("plaintext"))
}

type sourceEditor struct {
	text     string
	language string
	sel      textrange.Span
}

func (e *sourceEditor) Document() expand.DocumentID { return "file:///notes.txt" }
func (e *sourceEditor) Cursor() textrange.Point     { return e.sel.End }
func (e *sourceEditor) Selection() textrange.Span   { return e.sel }
func (e *sourceEditor) SetSelection(s textrange.Span) {
	e.sel = s
}
func (e *sourceEditor) Text() string     { return e.text }
func (e *sourceEditor) Language() string { return e.language }

type opaqueEditor struct {
	sel textrange.Span
}

func (e *opaqueEditor) Document() expand.DocumentID   { return "file:///opaque" }
func (e *opaqueEditor) Cursor() textrange.Point       { return e.sel.End }
func (e *opaqueEditor) Selection() textrange.Span     { return e.sel }
func (e *opaqueEditor) SetSelection(s textrange.Span) { e.sel = s }

func TestFallbackExpandAndShrink(t *testing.T) {
	s := NewSelector()
	defer s.Close()
	f := NewFallback(s)
	ctx := context.Background()

	ed := &sourceEditor{text: prose, sel: textrange.At(textrange.Position{Line: 2, Character: 6}).OneBased()}

	f.NativeExpand(ctx, ed)
	assert.Equal(t, textrange.NewRange(2, 5, 2, 10), ed.sel.ZeroBased())

	f.NativeExpand(ctx, ed)
	assert.Equal(t, textrange.NewRange(2, 5, 2, 16), ed.sel.ZeroBased())

	f.NativeShrink(ctx, ed)
	assert.Equal(t, textrange.NewRange(2, 5, 2, 10), ed.sel.ZeroBased())

	f.NativeShrink(ctx, ed)
	assert.Equal(t, textrange.At(textrange.Position{Line: 2, Character: 5}), ed.sel.ZeroBased(), "collapses to the start")

	f.NativeShrink(ctx, ed)
	assert.Equal(t, textrange.At(textrange.Position{Line: 2, Character: 5}), ed.sel.ZeroBased(), "empty selection stays")
}

func TestFallbackExpandAtDocumentBoundary(t *testing.T) {
	s := NewSelector()
	defer s.Close()
	f := NewFallback(s)

	whole := textrange.NewRange(0, 0, 4, 0)
	ed := &sourceEditor{text: prose, sel: whole.OneBased()}

	f.NativeExpand(context.Background(), ed)
	assert.Equal(t, whole, ed.sel.ZeroBased())
}

func TestFallbackIgnoresEditorsWithoutText(t *testing.T) {
	f := NewFallback(NewSelector())
	sel := textrange.NewRange(1, 1, 1, 4).OneBased()
	ed := &opaqueEditor{sel: sel}

	f.NativeExpand(context.Background(), ed)
	f.NativeShrink(context.Background(), ed)
	assert.Equal(t, sel, ed.sel)
}
