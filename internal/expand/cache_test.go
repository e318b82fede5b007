package expand

import (
	"testing"
	"time"

	"github.com/avitaltamir/vibeselect/internal/textrange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	chain := textrange.Chain{textrange.NewRange(4, 0, 4, 10), textrange.NewRange(2, 0, 6, 1)}

	t.Run("Get misses on an empty cache", func(t *testing.T) {
		c := NewCache(0, nil)
		_, ok := c.Get("a")
		assert.False(t, ok)
	})

	t.Run("entry is served within the TTL", func(t *testing.T) {
		clock := newFakeClock()
		c := NewCache(DefaultTTL, clock.Now)
		c.Set("a", chain)

		clock.Advance(DefaultTTL)
		got, ok := c.Get("a")
		require.True(t, ok)
		assert.Equal(t, chain, got)
	})

	t.Run("entry past the TTL is absent", func(t *testing.T) {
		clock := newFakeClock()
		c := NewCache(DefaultTTL, clock.Now)
		c.Set("a", chain)

		clock.Advance(DefaultTTL + time.Millisecond)
		_, ok := c.Get("a")
		assert.False(t, ok)
		assert.Equal(t, 1, c.Len(), "expiry is evaluated on read, not by eviction")
	})

	t.Run("returned chain is a copy", func(t *testing.T) {
		c := NewCache(0, nil)
		c.Set("a", chain)

		got, _ := c.Get("a")
		got[0] = textrange.Range{}

		again, _ := c.Get("a")
		assert.Equal(t, chain[0], again[0])
	})

	t.Run("Invalidate drops only that document", func(t *testing.T) {
		c := NewCache(0, nil)
		c.Set("a", chain)
		c.Set("b", chain)

		c.Invalidate("a")

		_, ok := c.Get("a")
		assert.False(t, ok)
		_, ok = c.Get("b")
		assert.True(t, ok)
	})

	t.Run("PruneOlderThan drops stale entries", func(t *testing.T) {
		clock := newFakeClock()
		c := NewCache(DefaultTTL, clock.Now)
		c.Set("old", chain)
		clock.Advance(StaleAfter)
		c.Set("fresh", chain)
		clock.Advance(time.Second)

		pruned := c.PruneOlderThan(StaleAfter)

		assert.Equal(t, 1, pruned)
		assert.Equal(t, 1, c.Len())
		_, ok := c.Get("fresh")
		assert.True(t, ok)
	})
}
