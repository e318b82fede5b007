package textrange

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionCompare(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Position
		expected int
	}{
		{"equal", Position{2, 3}, Position{2, 3}, 0},
		{"earlier line wins over character", Position{1, 90}, Position{2, 0}, -1},
		{"later line", Position{3, 0}, Position{2, 50}, 1},
		{"same line earlier character", Position{2, 1}, Position{2, 4}, -1},
		{"same line later character", Position{2, 5}, Position{2, 4}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Compare(tt.b))
		})
	}
}

func TestRangeContainment(t *testing.T) {
	outer := NewRange(2, 0, 6, 1)
	inner := NewRange(4, 0, 4, 10)
	cursor := At(Position{4, 2})

	t.Run("a range contains itself but not strictly", func(t *testing.T) {
		assert.True(t, inner.Contains(inner))
		assert.False(t, inner.StrictlyContains(inner))
	})

	t.Run("nested ranges", func(t *testing.T) {
		assert.True(t, outer.StrictlyContains(inner))
		assert.False(t, inner.Contains(outer))
	})

	t.Run("empty cursor is strictly inside any range around it", func(t *testing.T) {
		assert.True(t, inner.StrictlyContains(cursor))
		assert.True(t, outer.StrictlyContains(cursor))
	})

	t.Run("empty range at the edge is contained", func(t *testing.T) {
		assert.True(t, inner.StrictlyContains(At(Position{4, 10})))
		assert.False(t, inner.Contains(At(Position{4, 11})))
	})

	t.Run("overlap is not containment", func(t *testing.T) {
		a := NewRange(1, 0, 3, 0)
		b := NewRange(2, 0, 4, 0)
		assert.False(t, a.Contains(b))
		assert.False(t, b.Contains(a))
	})

	t.Run("same lines compare by character", func(t *testing.T) {
		assert.False(t, NewRange(4, 3, 4, 10).Contains(inner))
	})
}

func TestRangeNormalized(t *testing.T) {
	r := Range{Start: Position{5, 2}, End: Position{1, 0}}
	assert.Equal(t, NewRange(1, 0, 5, 2), r.Normalized())
	assert.Equal(t, NewRange(1, 0, 5, 2), NewRange(1, 0, 5, 2).Normalized())
}

func TestCoordinateTranslation(t *testing.T) {
	r := NewRange(0, 0, 3, 7)
	span := r.OneBased()

	assert.Equal(t, Point{Line: 1, Column: 1}, span.Start)
	assert.Equal(t, Point{Line: 4, Column: 8}, span.End)
	assert.Equal(t, r, span.ZeroBased())
	assert.Equal(t, Position{9, 0}, Point{10, 1}.ZeroBased())
}

func TestChain(t *testing.T) {
	chain := Chain{NewRange(4, 0, 4, 10), NewRange(2, 0, 6, 1), NewRange(0, 0, 9, 0)}
	assert.True(t, chain.Nested())

	clone := chain.Clone()
	clone[0] = NewRange(0, 0, 0, 0)
	assert.Equal(t, NewRange(4, 0, 4, 10), chain[0], "clone must not share storage")

	assert.False(t, Chain{NewRange(2, 0, 6, 1), NewRange(4, 0, 4, 10)}.Nested())
	assert.Nil(t, Chain(nil).Clone())
}

func TestUTF16(t *testing.T) {
	line := "aé😀b"

	assert.Equal(t, 5, UTF16Len(line))

	tests := []struct {
		character int
		byteOff   int
	}{
		{0, 0},
		{1, 1}, // after 'a'
		{2, 3}, // after 'é' (2 bytes)
		{3, 3}, // inside the surrogate pair rounds down
		{4, 7}, // after the emoji (4 bytes, 2 units)
		{5, 8},
		{99, 8},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.byteOff, ByteOffset(line, tt.character), "character %d", tt.character)
	}

	assert.Equal(t, 0, Character(line, 0))
	assert.Equal(t, 2, Character(line, 3))
	assert.Equal(t, 4, Character(line, 7))
	assert.Equal(t, 5, Character(line, 100))
}
