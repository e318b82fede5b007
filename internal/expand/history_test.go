package expand

import (
	"testing"

	"github.com/avitaltamir/vibeselect/internal/textrange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory(t *testing.T) {
	r0 := textrange.NewRange(4, 0, 4, 10)
	r1 := textrange.NewRange(2, 0, 6, 1)
	cursor := textrange.At(textrange.Position{Line: 4, Character: 2})

	t.Run("Pop and PeekLast on empty history", func(t *testing.T) {
		h := NewHistory()

		_, ok := h.Pop("a")
		assert.False(t, ok)
		_, ok = h.PeekLast("a")
		assert.False(t, ok)
	})

	t.Run("Push skips an immediate duplicate", func(t *testing.T) {
		h := NewHistory()
		h.Push("a", r0)
		h.Push("a", r0)
		h.Push("a", r1)
		h.Push("a", r1)

		assert.Equal(t, 2, h.Depth("a"))
	})

	t.Run("Push keeps a non adjacent repeat", func(t *testing.T) {
		h := NewHistory()
		h.Push("a", r0)
		h.Push("a", r1)
		h.Push("a", r0)

		assert.Equal(t, 3, h.Depth("a"))
	})

	t.Run("Pop returns the new top", func(t *testing.T) {
		h := NewHistory()
		h.Push("a", cursor)
		h.Push("a", r0)
		h.Push("a", r1)

		got, ok := h.Pop("a")
		require.True(t, ok)
		assert.Equal(t, r0, got)

		got, ok = h.Pop("a")
		require.True(t, ok)
		assert.Equal(t, cursor, got)
	})

	t.Run("Pop with a single entry leaves history untouched", func(t *testing.T) {
		h := NewHistory()
		h.Push("a", r0)

		_, ok := h.Pop("a")
		assert.False(t, ok)

		last, ok := h.PeekLast("a")
		require.True(t, ok)
		assert.Equal(t, r0, last)
		assert.Equal(t, 1, h.Depth("a"))
	})

	t.Run("documents are independent", func(t *testing.T) {
		h := NewHistory()
		h.Push("a", r0)
		h.Push("a", r1)
		h.Push("b", cursor)

		h.Clear("a")

		assert.Equal(t, 0, h.Depth("a"))
		last, ok := h.PeekLast("b")
		require.True(t, ok)
		assert.Equal(t, cursor, last)
	})
}
