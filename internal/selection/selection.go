// Package selection holds the editor's anchored selection over document
// lines. Positions are zero-based; columns count UTF-16 code units so they
// line up with language server ranges.
package selection

import (
	"strings"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	"github.com/avitaltamir/vibeselect/internal/textrange"
	"github.com/avitaltamir/vibeselect/internal/theme"
	"github.com/charmbracelet/lipgloss"
)

// Model holds the selection state for a document.
type Model struct {
	Anchor textrange.Position // Fixed end of the selection
	Cursor textrange.Position // Moving end, where the caret is drawn

	content []string
	goal    int // preferred column for vertical moves
}

// New creates a new selection model.
func New() Model {
	return Model{}
}

// SetContent sets the text lines and clamps the selection into them.
func (m *Model) SetContent(lines []string) {
	m.content = lines
	m.Anchor = m.clamp(m.Anchor)
	m.Cursor = m.clamp(m.Cursor)
	m.goal = m.Cursor.Character
}

// Lines returns the text content.
func (m Model) Lines() []string {
	return m.content
}

// SetRange selects r with the cursor at its end.
func (m *Model) SetRange(r textrange.Range) {
	r = r.Normalized()
	m.Anchor = m.clamp(r.Start)
	m.Cursor = m.clamp(r.End)
	m.goal = m.Cursor.Character
}

// Range returns the selection with its start before its end.
func (m Model) Range() textrange.Range {
	return textrange.Range{Start: m.Anchor, End: m.Cursor}.Normalized()
}

// Collapse places an empty selection at p.
func (m *Model) Collapse(p textrange.Position) {
	p = m.clamp(p)
	m.Anchor, m.Cursor = p, p
	m.goal = p.Character
}

// ClearSelection drops the anchor onto the cursor.
func (m *Model) ClearSelection() {
	m.Anchor = m.Cursor
}

// HasSelection returns true if the selection covers any text.
func (m Model) HasSelection() bool {
	return m.Anchor != m.Cursor
}

// MoveCursor moves the caret by whole lines or characters. Horizontal moves
// wrap across line ends. With extend the anchor stays put, otherwise the
// selection collapses onto the new caret.
func (m *Model) MoveCursor(lines, chars int, extend bool) {
	p := m.Cursor
	if lines != 0 {
		p.Line += lines
		p.Character = m.goal
		p = m.clamp(p)
	}
	for ; chars > 0; chars-- {
		p = m.stepForward(p)
	}
	for ; chars < 0; chars++ {
		p = m.stepBack(p)
	}
	m.Cursor = p
	if lines == 0 {
		m.goal = p.Character
	}
	if !extend {
		m.Anchor = p
	}
}

// MoveToLineStart moves the caret to the first column.
func (m *Model) MoveToLineStart(extend bool) {
	m.Cursor.Character = 0
	m.goal = 0
	if !extend {
		m.Anchor = m.Cursor
	}
}

// MoveToLineEnd moves the caret past the last character.
func (m *Model) MoveToLineEnd(extend bool) {
	m.Cursor.Character = m.lineLen(m.Cursor.Line)
	m.goal = m.Cursor.Character
	if !extend {
		m.Anchor = m.Cursor
	}
}

func (m Model) stepForward(p textrange.Position) textrange.Position {
	line := m.line(p.Line)
	if p.Character < textrange.UTF16Len(line) {
		r, _ := utf8.DecodeRuneInString(line[textrange.ByteOffset(line, p.Character):])
		p.Character += runeUnits(r)
		return p
	}
	if p.Line+1 < len(m.content) {
		return textrange.Position{Line: p.Line + 1}
	}
	return p
}

func (m Model) stepBack(p textrange.Position) textrange.Position {
	if p.Character > 0 {
		line := m.line(p.Line)
		p.Character = textrange.Character(line, textrange.ByteOffset(line, p.Character-1))
		return p
	}
	if p.Line > 0 {
		return textrange.Position{Line: p.Line - 1, Character: m.lineLen(p.Line - 1)}
	}
	return p
}

// SelectedText returns the selected text from the content.
func (m Model) SelectedText() string {
	if !m.HasSelection() || len(m.content) == 0 {
		return ""
	}
	r := m.Range()
	start, end := m.clamp(r.Start), m.clamp(r.End)

	first := m.content[start.Line]
	startOff := textrange.ByteOffset(first, start.Character)

	// Single line selection
	if start.Line == end.Line {
		return first[startOff:textrange.ByteOffset(first, end.Character)]
	}

	// Multi-line selection
	var result strings.Builder
	result.WriteString(first[startOff:])
	result.WriteString("\n")
	for i := start.Line + 1; i < end.Line; i++ {
		result.WriteString(m.content[i])
		result.WriteString("\n")
	}
	last := m.content[end.Line]
	result.WriteString(last[:textrange.ByteOffset(last, end.Character)])

	return result.String()
}

// CopyToClipboard copies the selected text to the system clipboard.
func (m Model) CopyToClipboard() error {
	text := m.SelectedText()
	if text == "" {
		return nil
	}
	return clipboard.WriteAll(text)
}

// IsSelected returns true if the character at (line, char) is within the
// selection.
func (m Model) IsSelected(line, char int) bool {
	if !m.HasSelection() {
		return false
	}
	r := m.Range()
	p := textrange.Position{Line: line, Character: char}
	return !p.Before(r.Start) && p.Before(r.End)
}

// IsCopyKey returns true if the key message is a copy command.
// On macOS, Cmd+C is intercepted by the terminal emulator before reaching the app,
// so we support multiple key bindings for copy:
// - y: Vim-style yank
// - Ctrl+Y: Alternative copy binding
func IsCopyKey(key string) bool {
	switch key {
	case "y", "ctrl+y":
		return true
	default:
		return false
	}
}

func (m Model) clamp(p textrange.Position) textrange.Position {
	if len(m.content) == 0 || p.Line < 0 {
		return textrange.Position{}
	}
	if p.Line >= len(m.content) {
		last := len(m.content) - 1
		return textrange.Position{Line: last, Character: m.lineLen(last)}
	}
	p.Character = clamp(p.Character, 0, m.lineLen(p.Line))
	return p
}

func (m Model) line(i int) string {
	if i < 0 || i >= len(m.content) {
		return ""
	}
	return m.content[i]
}

func (m Model) lineLen(i int) int {
	return textrange.UTF16Len(m.line(i))
}

func runeUnits(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

type cellKind int

const (
	cellPlain cellKind = iota
	cellSelected
	cellCursor
)

// RenderWithSelection renders one line with the selection highlighted and,
// when nothing is selected, the caret drawn as a block. Tabs expand to
// tabWidth columns.
func RenderWithSelection(line string, lineNum int, sel *Model, tabWidth int) string {
	if tabWidth <= 0 {
		tabWidth = 4
	}

	var out, run strings.Builder
	kind := cellPlain
	flush := func() {
		if run.Len() == 0 {
			return
		}
		switch kind {
		case cellSelected:
			out.WriteString(theme.SelectionStyle.Render(run.String()))
		case cellCursor:
			out.WriteString(theme.CursorStyle.Render(run.String()))
		default:
			out.WriteString(run.String())
		}
		run.Reset()
	}

	char, col := 0, 0
	for _, r := range line {
		k := sel.kindAt(lineNum, char)
		if k != kind {
			flush()
			kind = k
		}
		if r == '\t' {
			n := tabWidth - col%tabWidth
			run.WriteString(strings.Repeat(" ", n))
			col += n
		} else {
			run.WriteRune(r)
			col += lipgloss.Width(string(r))
		}
		char += runeUnits(r)
	}
	flush()

	// Past the last character: the caret, or the selected line break.
	switch sel.kindAt(lineNum, char) {
	case cellCursor:
		out.WriteString(theme.CursorStyle.Render(" "))
	case cellSelected:
		out.WriteString(theme.SelectionStyle.Render(" "))
	}
	return out.String()
}

func (m *Model) kindAt(line, char int) cellKind {
	if m == nil {
		return cellPlain
	}
	if m.HasSelection() {
		if m.IsSelected(line, char) {
			return cellSelected
		}
		return cellPlain
	}
	if m.Cursor.Line == line && m.Cursor.Character == char {
		return cellCursor
	}
	return cellPlain
}

// clamp restricts v to the range [min, max].
func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
