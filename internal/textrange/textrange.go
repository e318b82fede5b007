// Package textrange holds the position and range types shared by the selection
// engine, the language server client and the editor surface.
//
// Two coordinate systems meet here. Position and Range are zero-based
// (line, character) pairs as language servers speak them, with characters
// counted in UTF-16 code units. Point and Span are the one-based (line, column)
// form the editor surface reports. The conversion methods on these types are the
// only place the two are translated into each other.
package textrange

import "fmt"

// Position is a zero-based (line, character) location.
type Position struct {
	Line      int // 0-indexed line number
	Character int // 0-indexed UTF-16 code unit offset within the line
}

// Compare orders positions lexicographically, line first.
// It returns -1, 0 or +1.
func (p Position) Compare(o Position) int {
	switch {
	case p.Line < o.Line:
		return -1
	case p.Line > o.Line:
		return 1
	case p.Character < o.Character:
		return -1
	case p.Character > o.Character:
		return 1
	default:
		return 0
	}
}

// Before reports whether p comes strictly before o.
func (p Position) Before(o Position) bool {
	return p.Compare(o) < 0
}

// OneBased converts p to the editor's one-based form.
func (p Position) OneBased() Point {
	return Point{Line: p.Line + 1, Column: p.Character + 1}
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Range is a half-open zero-based span [Start, End).
type Range struct {
	Start Position
	End   Position
}

// NewRange builds a range from zero-based coordinates.
func NewRange(startLine, startChar, endLine, endChar int) Range {
	return Range{
		Start: Position{Line: startLine, Character: startChar},
		End:   Position{Line: endLine, Character: endChar},
	}
}

// At returns the empty range sitting at p.
func At(p Position) Range {
	return Range{Start: p, End: p}
}

// IsEmpty reports whether r covers no text.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Normalized returns r with Start not after End.
func (r Range) Normalized() Range {
	if r.End.Before(r.Start) {
		return Range{Start: r.End, End: r.Start}
	}
	return r
}

// Contains reports whether o lies entirely inside r. A range contains itself.
func (r Range) Contains(o Range) bool {
	return r.Start.Compare(o.Start) <= 0 && r.End.Compare(o.End) >= 0
}

// StrictlyContains reports whether r contains o and is larger than it.
// An empty range is strictly contained by any different range around it.
func (r Range) StrictlyContains(o Range) bool {
	return r != o && r.Contains(o)
}

// ContainsPosition reports whether p lies within r, end inclusive.
func (r Range) ContainsPosition(p Position) bool {
	return r.Start.Compare(p) <= 0 && r.End.Compare(p) >= 0
}

// OneBased converts r to the editor's one-based form.
func (r Range) OneBased() Span {
	return Span{Start: r.Start.OneBased(), End: r.End.OneBased()}
}

func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// Chain is an ordered sequence of ranges surrounding a queried position,
// innermost first and widening outward.
type Chain []Range

// Clone returns a copy of c that shares no storage with it.
func (c Chain) Clone() Chain {
	if c == nil {
		return nil
	}
	out := make(Chain, len(c))
	copy(out, c)
	return out
}

// Nested reports whether every entry contains the one before it.
func (c Chain) Nested() bool {
	for i := 1; i < len(c); i++ {
		if !c[i].Contains(c[i-1]) {
			return false
		}
	}
	return true
}

// Point is a one-based (line, column) location as the editor surface reports it.
type Point struct {
	Line   int
	Column int
}

// ZeroBased converts p to a Position.
func (p Point) ZeroBased() Position {
	return Position{Line: p.Line - 1, Character: p.Column - 1}
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a one-based selection as the editor surface reports it.
type Span struct {
	Start Point
	End   Point
}

// ZeroBased converts s to a Range.
func (s Span) ZeroBased() Range {
	return Range{Start: s.Start.ZeroBased(), End: s.End.ZeroBased()}
}

func (s Span) String() string {
	return s.Start.String() + "-" + s.End.String()
}
