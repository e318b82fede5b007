// Package editor is the live editor surface: one document, its selection and
// a scrolling viewport. Selection commands run against a Snapshot so they can
// execute off the UI goroutine.
package editor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/avitaltamir/vibeselect/internal/expand"
	"github.com/avitaltamir/vibeselect/internal/lang"
	"github.com/avitaltamir/vibeselect/internal/lsp"
	"github.com/avitaltamir/vibeselect/internal/selection"
	"github.com/avitaltamir/vibeselect/internal/textrange"
	"github.com/avitaltamir/vibeselect/internal/theme"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FileLoadedMsg is sent when a file has been read from disk.
type FileLoadedMsg struct {
	Path    string
	Content string
	Err     error
}

// CopiedMsg reports the outcome of copying the selection.
type CopiedMsg struct {
	Chars int
	Err   error
}

const tabWidth = 4

// Model is the editor component.
type Model struct {
	viewport viewport.Model
	keys     KeyMap
	focused  bool
	width    int
	height   int
	ready    bool

	path     string
	doc      expand.DocumentID
	content  string
	language string
	version  int
	err      error

	selection selection.Model
}

// New creates an empty editor.
func New() Model {
	return Model{
		keys:      DefaultKeyMap(),
		selection: selection.New(),
		language:  lang.PlainText,
	}
}

// LoadFile reads path into a FileLoadedMsg.
func LoadFile(path string) tea.Cmd {
	return func() tea.Msg {
		content, err := os.ReadFile(path)
		if err != nil {
			return FileLoadedMsg{Path: path, Err: err}
		}
		return FileLoadedMsg{Path: path, Content: string(content)}
	}
}

// Init initializes the editor.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FileLoadedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.SetContent(msg.Path, msg.Content)
		return m, nil

	case tea.MouseMsg:
		if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	sel := &m.selection
	switch {
	case selection.IsCopyKey(msg.String()):
		if !sel.HasSelection() {
			return m, nil
		}
		text := sel.SelectedText()
		s := *sel
		return m, func() tea.Msg {
			return CopiedMsg{Chars: textrange.UTF16Len(text), Err: s.CopyToClipboard()}
		}
	case key.Matches(msg, m.keys.Clear):
		sel.ClearSelection()
	case key.Matches(msg, m.keys.Up):
		sel.MoveCursor(-1, 0, false)
	case key.Matches(msg, m.keys.Down):
		sel.MoveCursor(1, 0, false)
	case key.Matches(msg, m.keys.Left):
		sel.MoveCursor(0, -1, false)
	case key.Matches(msg, m.keys.Right):
		sel.MoveCursor(0, 1, false)
	case key.Matches(msg, m.keys.ExtendUp):
		sel.MoveCursor(-1, 0, true)
	case key.Matches(msg, m.keys.ExtendDown):
		sel.MoveCursor(1, 0, true)
	case key.Matches(msg, m.keys.ExtendLeft):
		sel.MoveCursor(0, -1, true)
	case key.Matches(msg, m.keys.ExtendRight):
		sel.MoveCursor(0, 1, true)
	case key.Matches(msg, m.keys.LineStart):
		sel.MoveToLineStart(false)
	case key.Matches(msg, m.keys.LineEnd):
		sel.MoveToLineEnd(false)
	case key.Matches(msg, m.keys.PageUp):
		sel.MoveCursor(-m.pageSize(), 0, false)
	case key.Matches(msg, m.keys.PageDown):
		sel.MoveCursor(m.pageSize(), 0, false)
	default:
		return m, nil
	}
	m.refresh()
	return m, nil
}

// View renders the editor inside its panel.
func (m Model) View() string {
	if !m.ready {
		return ""
	}
	var body string
	switch {
	case m.err != nil:
		body = lipgloss.NewStyle().Foreground(theme.ColorError).Bold(true).Render("Error: " + m.err.Error())
	case m.path == "" && m.content == "":
		body = theme.TextMutedStyle.Render("No file open")
	default:
		body = m.viewport.View()
	}

	opts := theme.PanelOptions{
		Title:         m.title(),
		ScrollPercent: -1,
		BottomHints:   m.position(),
	}
	if m.path != "" {
		opts.Badge = m.language
		if icon := theme.LanguageIcon(m.language); icon != "" {
			opts.Badge = icon + " " + m.language
		}
	}
	if m.viewport.TotalLineCount() > m.viewport.Height {
		opts.ScrollPercent = m.viewport.ScrollPercent() * 100
	}
	return theme.RenderPanel(body, opts, m.width, m.height, m.focused)
}

func (m Model) title() string {
	if m.path == "" {
		return "vibeselect"
	}
	return filepath.Base(m.path)
}

// position describes the cursor and selection size, one-based.
func (m Model) position() string {
	p := m.selection.Cursor.OneBased()
	s := fmt.Sprintf("Ln %d, Col %d", p.Line, p.Column)
	if m.selection.HasSelection() {
		s += fmt.Sprintf(" (%d selected)", textrange.UTF16Len(m.selection.SelectedText()))
	}
	return s
}

// SetContent replaces the document. The selection collapses to the start
// unless the same file is being reloaded, in which case it is clamped.
func (m *Model) SetContent(path, content string) {
	same := path != "" && path == m.path
	m.path = path
	m.content = content
	m.language = lang.Detect(path, content)
	m.err = nil
	m.version++
	if path != "" {
		m.doc = expand.DocumentID(lsp.PathToURI(path))
	} else {
		m.doc = expand.DocumentID(fmt.Sprintf("untitled:%d", m.version))
	}

	m.selection.SetContent(strings.Split(content, "\n"))
	if !same {
		m.selection.Collapse(textrange.Position{})
		m.viewport.GotoTop()
	}
	m.refresh()
}

// refresh re-renders the lines and scrolls the cursor into view.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderLines())
	m.scrollToCursor()
}

func (m *Model) scrollToCursor() {
	line := m.selection.Cursor.Line
	switch {
	case line < m.viewport.YOffset:
		m.viewport.SetYOffset(line)
	case m.viewport.Height > 0 && line >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

func (m Model) renderLines() string {
	lines := m.selection.Lines()
	digits := max(len(fmt.Sprint(len(lines))), 3)
	sep := theme.TextMutedStyle.Render(" │ ")

	var b strings.Builder
	for i, line := range lines {
		num := fmt.Sprintf("%*d", digits, i+1)
		if i == m.selection.Cursor.Line {
			b.WriteString(theme.LineNumberActiveStyle.Render(num))
		} else {
			b.WriteString(theme.LineNumberStyle.Render(num))
		}
		b.WriteString(sep)
		b.WriteString(selection.RenderWithSelection(line, i, &m.selection, tabWidth))
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m Model) pageSize() int {
	return max(m.viewport.Height-1, 1)
}

// Focus gives focus to the editor.
func (m Model) Focus() Model {
	m.focused = true
	return m
}

// Blur removes focus from the editor.
func (m Model) Blur() Model {
	m.focused = false
	return m
}

// Focused reports whether the editor has focus.
func (m Model) Focused() bool {
	return m.focused
}

// SetSize updates the panel dimensions, border included.
func (m Model) SetSize(width, height int) Model {
	m.width, m.height = width, height
	w, h := max(width-2, 0), max(height-2, 0)
	if !m.ready {
		m.viewport = viewport.New(w, h)
		m.viewport.MouseWheelEnabled = true
		m.viewport.MouseWheelDelta = 3
		m.ready = true
	} else {
		m.viewport.Width = w
		m.viewport.Height = h
	}
	m.refresh()
	return m
}

// Size returns the panel dimensions.
func (m Model) Size() (width, height int) {
	return m.width, m.height
}

// Path returns the file being edited.
func (m Model) Path() string { return m.path }

// Document returns the identifier used by the selection engine.
func (m Model) Document() expand.DocumentID { return m.doc }

// Text returns the document content.
func (m Model) Text() string { return m.content }

// Language returns the detected language identifier.
func (m Model) Language() string { return m.language }

// Version increases on every content change.
func (m Model) Version() int { return m.version }

// Err returns the last load error.
func (m Model) Err() error { return m.err }

// Selection returns the zero-based selection.
func (m Model) Selection() textrange.Range { return m.selection.Range() }

// Cursor returns the zero-based caret position.
func (m Model) Cursor() textrange.Position { return m.selection.Cursor }

// HasSelection reports whether any text is selected.
func (m Model) HasSelection() bool { return m.selection.HasSelection() }

// SelectedText returns the selected text.
func (m Model) SelectedText() string { return m.selection.SelectedText() }

// Select replaces the selection; the cursor lands on its end.
func (m *Model) Select(r textrange.Range) {
	m.selection.SetRange(r)
	m.refresh()
}

// MoveTo collapses the selection at p.
func (m *Model) MoveTo(p textrange.Position) {
	m.selection.Collapse(p)
	m.refresh()
}

// Snapshot returns a detached copy of the document and selection for the
// selection engine.
func (m Model) Snapshot() *Snapshot {
	return &Snapshot{
		doc:      m.doc,
		text:     m.content,
		language: m.language,
		version:  m.version,
		sel:      m.selection,
	}
}

// Apply copies a finished snapshot's selection back into the editor. It
// reports false, changing nothing, when the document changed meanwhile.
func (m *Model) Apply(s *Snapshot) bool {
	if s.doc != m.doc || s.version != m.version {
		return false
	}
	m.selection.SetRange(s.Range())
	m.refresh()
	return true
}
