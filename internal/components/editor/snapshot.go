package editor

import (
	"github.com/avitaltamir/vibeselect/internal/expand"
	"github.com/avitaltamir/vibeselect/internal/selection"
	"github.com/avitaltamir/vibeselect/internal/textrange"
)

// Snapshot is a detached copy of an editor's document and selection. It
// implements expand.Editor and syntax.Source, so expand and shrink can run in
// a tea.Cmd while the live editor keeps handling input. It is not safe for
// concurrent use.
type Snapshot struct {
	doc      expand.DocumentID
	text     string
	language string
	version  int
	sel      selection.Model
}

func (s *Snapshot) Document() expand.DocumentID { return s.doc }

func (s *Snapshot) Cursor() textrange.Point { return s.sel.Cursor.OneBased() }

func (s *Snapshot) Selection() textrange.Span { return s.sel.Range().OneBased() }

func (s *Snapshot) SetSelection(span textrange.Span) {
	s.sel.SetRange(span.ZeroBased())
}

func (s *Snapshot) Text() string { return s.text }

func (s *Snapshot) Language() string { return s.language }

// Range returns the zero-based selection.
func (s *Snapshot) Range() textrange.Range { return s.sel.Range() }
