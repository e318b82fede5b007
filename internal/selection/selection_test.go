package selection

import (
	"strings"
	"testing"

	"github.com/avitaltamir/vibeselect/internal/textrange"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func pos(line, char int) textrange.Position {
	return textrange.Position{Line: line, Character: char}
}

func newModel(lines ...string) Model {
	m := New()
	m.SetContent(lines)
	return m
}

func TestNew(t *testing.T) {
	m := New()
	assert.False(t, m.HasSelection())
	assert.Equal(t, "", m.SelectedText())
}

func TestSetRange(t *testing.T) {
	m := newModel("hello world", "second")

	m.SetRange(textrange.NewRange(1, 3, 0, 6))
	assert.Equal(t, pos(0, 6), m.Anchor, "range is normalized")
	assert.Equal(t, pos(1, 3), m.Cursor)
	assert.True(t, m.HasSelection())
	assert.Equal(t, textrange.NewRange(0, 6, 1, 3), m.Range())

	m.SetRange(textrange.NewRange(0, 0, 9, 9))
	assert.Equal(t, pos(1, 6), m.Cursor, "clamped to the last line end")
}

func TestRangeOfBackwardSelection(t *testing.T) {
	m := newModel("abcdef")
	m.Collapse(pos(0, 5))
	m.MoveCursor(0, -3, true)

	assert.Equal(t, pos(0, 5), m.Anchor)
	assert.Equal(t, pos(0, 2), m.Cursor)
	assert.Equal(t, textrange.NewRange(0, 2, 0, 5), m.Range())
	assert.Equal(t, "cde", m.SelectedText())
}

func TestClearSelection(t *testing.T) {
	m := newModel("hello")
	m.SetRange(textrange.NewRange(0, 1, 0, 4))
	m.ClearSelection()

	assert.False(t, m.HasSelection())
	assert.Equal(t, pos(0, 4), m.Anchor)
}

func TestMoveCursor(t *testing.T) {
	m := newModel("abc", "", "a longer line")

	t.Run("horizontal moves wrap across lines", func(t *testing.T) {
		m.Collapse(pos(0, 2))
		m.MoveCursor(0, 2, false)
		assert.Equal(t, pos(1, 0), m.Cursor)
		m.MoveCursor(0, -1, false)
		assert.Equal(t, pos(0, 3), m.Cursor)
		assert.False(t, m.HasSelection())
	})

	t.Run("vertical moves keep the goal column", func(t *testing.T) {
		m.Collapse(pos(0, 2))
		m.MoveCursor(1, 0, false)
		assert.Equal(t, pos(1, 0), m.Cursor)
		m.MoveCursor(1, 0, false)
		assert.Equal(t, pos(2, 2), m.Cursor)
	})

	t.Run("stops at document edges", func(t *testing.T) {
		m.Collapse(pos(0, 0))
		m.MoveCursor(-1, -1, false)
		assert.Equal(t, pos(0, 0), m.Cursor)
		m.MoveCursor(5, 0, false)
		assert.Equal(t, 2, m.Cursor.Line)
	})

	t.Run("extend keeps the anchor", func(t *testing.T) {
		m.Collapse(pos(2, 0))
		m.MoveCursor(0, 8, true)
		assert.Equal(t, "a longer", m.SelectedText())
	})

	t.Run("line start and end", func(t *testing.T) {
		m.Collapse(pos(2, 4))
		m.MoveToLineEnd(true)
		assert.Equal(t, "nger line", m.SelectedText())
		m.MoveToLineStart(false)
		assert.Equal(t, pos(2, 0), m.Cursor)
		assert.False(t, m.HasSelection())
	})
}

func TestMoveCursorOverSurrogatePair(t *testing.T) {
	m := newModel("a😀b")
	m.Collapse(pos(0, 1))

	m.MoveCursor(0, 1, false)
	assert.Equal(t, pos(0, 3), m.Cursor, "emoji is two UTF-16 units")
	m.MoveCursor(0, -1, false)
	assert.Equal(t, pos(0, 1), m.Cursor)
}

func TestSelectedText(t *testing.T) {
	m := newModel("func main() {", "\tx := 1", "}")

	tests := []struct {
		name     string
		r        textrange.Range
		expected string
	}{
		{"single line", textrange.NewRange(0, 5, 0, 9), "main"},
		{"multi line", textrange.NewRange(0, 12, 2, 1), "{\n\tx := 1\n}"},
		{"whole lines", textrange.NewRange(1, 0, 2, 0), "\tx := 1\n"},
		{"empty", textrange.NewRange(1, 2, 1, 2), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.SetRange(tt.r)
			assert.Equal(t, tt.expected, m.SelectedText())
		})
	}
}

func TestSelectedTextMultibyte(t *testing.T) {
	m := newModel("aé😀b")
	m.SetRange(textrange.NewRange(0, 1, 0, 4))
	assert.Equal(t, "é😀", m.SelectedText())
}

func TestIsSelected(t *testing.T) {
	m := newModel("hello world", "second line", "third")
	m.SetRange(textrange.NewRange(0, 6, 1, 6))

	tests := []struct {
		line, char int
		expected   bool
	}{
		{0, 5, false},
		{0, 6, true},
		{0, 11, true},
		{1, 0, true},
		{1, 5, true},
		{1, 6, false},
		{2, 0, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, m.IsSelected(tt.line, tt.char), "(%d,%d)", tt.line, tt.char)
	}
}

func TestIsCopyKey(t *testing.T) {
	assert.True(t, IsCopyKey("y"))
	assert.True(t, IsCopyKey("ctrl+y"))
	assert.False(t, IsCopyKey("ctrl+c"))
	assert.False(t, IsCopyKey("x"))
}

func TestRenderWithSelection(t *testing.T) {
	t.Run("plain line expands tabs", func(t *testing.T) {
		assert.Equal(t, "    ab", RenderWithSelection("\tab", 0, nil, 4))
		assert.Equal(t, "ab  c", RenderWithSelection("ab\tc", 0, nil, 4))
	})

	t.Run("caret past the end adds a cell", func(t *testing.T) {
		m := newModel("ab")
		m.Collapse(pos(0, 2))
		out := RenderWithSelection("ab", 0, &m, 4)
		assert.Equal(t, 3, lipgloss.Width(out))
		assert.True(t, strings.HasPrefix(out, "ab"))
	})

	t.Run("selection keeps the text", func(t *testing.T) {
		m := newModel("hello world")
		m.SetRange(textrange.NewRange(0, 0, 0, 5))
		out := RenderWithSelection("hello world", 0, &m, 4)
		assert.Contains(t, out, "hello")
		assert.Equal(t, 11, lipgloss.Width(out))
	})

	t.Run("selected line break is drawn", func(t *testing.T) {
		m := newModel("ab", "cd")
		m.SetRange(textrange.NewRange(0, 1, 1, 1))
		assert.Equal(t, 3, lipgloss.Width(RenderWithSelection("ab", 0, &m, 4)))
		assert.Equal(t, 2, lipgloss.Width(RenderWithSelection("cd", 1, &m, 4)))
	})
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, clamp(-5, 0, 10))
	assert.Equal(t, 10, clamp(15, 0, 10))
	assert.Equal(t, 5, clamp(5, 0, 10))
}
