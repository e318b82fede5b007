package syntax

import (
	"sort"
	"strings"

	"github.com/avitaltamir/vibeselect/internal/textrange"
	sitter "github.com/smacker/go-tree-sitter"
)

// document indexes text by line so positions (UTF-16 characters), byte
// offsets and tree-sitter points (byte columns) convert into each other.
type document struct {
	text   string
	lines  []string
	starts []int // byte offset of each line start
}

func newDocument(text string) *document {
	lines := strings.Split(text, "\n")
	starts := make([]int, len(lines))
	offset := 0
	for i, line := range lines {
		starts[i] = offset
		offset += len(line) + 1
	}
	return &document{text: text, lines: lines, starts: starts}
}

// clamp moves p inside the document.
func (d *document) clamp(p textrange.Position) textrange.Position {
	if p.Line < 0 {
		return textrange.Position{}
	}
	if p.Line >= len(d.lines) {
		return d.end()
	}
	if p.Character < 0 {
		p.Character = 0
	}
	if n := textrange.UTF16Len(d.lines[p.Line]); p.Character > n {
		p.Character = n
	}
	return p
}

func (d *document) clampRange(r textrange.Range) textrange.Range {
	return textrange.Range{Start: d.clamp(r.Start), End: d.clamp(r.End)}
}

func (d *document) end() textrange.Position {
	last := len(d.lines) - 1
	return textrange.Position{Line: last, Character: textrange.UTF16Len(d.lines[last])}
}

func (d *document) whole() textrange.Range {
	return textrange.Range{End: d.end()}
}

func (d *document) offset(p textrange.Position) int {
	p = d.clamp(p)
	return d.starts[p.Line] + textrange.ByteOffset(d.lines[p.Line], p.Character)
}

func (d *document) position(offset int) textrange.Position {
	if offset <= 0 {
		return textrange.Position{}
	}
	if offset >= len(d.text) {
		return d.end()
	}
	line := sort.Search(len(d.starts), func(i int) bool { return d.starts[i] > offset }) - 1
	return textrange.Position{
		Line:      line,
		Character: textrange.Character(d.lines[line], offset-d.starts[line]),
	}
}

func (d *document) rangeOf(start, end int) textrange.Range {
	return textrange.Range{Start: d.position(start), End: d.position(end)}
}

// point converts p to a tree-sitter point, whose column counts bytes.
func (d *document) point(p textrange.Position) sitter.Point {
	p = d.clamp(p)
	return sitter.Point{
		Row:    uint32(p.Line),
		Column: uint32(textrange.ByteOffset(d.lines[p.Line], p.Character)),
	}
}

// fromPoint converts a tree-sitter point back to a Position.
func (d *document) fromPoint(pt sitter.Point) textrange.Position {
	row := int(pt.Row)
	if row >= len(d.lines) {
		return d.end()
	}
	return textrange.Position{
		Line:      row,
		Character: textrange.Character(d.lines[row], int(pt.Column)),
	}
}
