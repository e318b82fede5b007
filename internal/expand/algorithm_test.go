package expand

import (
	"testing"

	"github.com/avitaltamir/vibeselect/internal/textrange"
	"github.com/stretchr/testify/assert"
)

func TestNextEnclosing(t *testing.T) {
	r0 := textrange.NewRange(4, 0, 4, 10)
	r1 := textrange.NewRange(2, 0, 6, 1)
	r2 := textrange.NewRange(0, 0, 9, 0)
	chain := textrange.Chain{r0, r1, r2}

	tests := []struct {
		name     string
		sel      textrange.Range
		expected textrange.Range
		found    bool
	}{
		{"empty cursor picks the innermost range", textrange.At(textrange.Position{Line: 4, Character: 2}), r0, true},
		{"selection equal to R0 picks R1, not R2", r0, r1, true},
		{"selection inside R0 picks R0", textrange.NewRange(4, 1, 4, 3), r0, true},
		{"selection crossing R0 skips it", textrange.NewRange(4, 5, 5, 0), r1, true},
		{"outermost selection has nothing larger", r2, textrange.Range{}, false},
		{"selection outside the chain", textrange.NewRange(10, 0, 11, 0), textrange.Range{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextEnclosing(chain, tt.sel)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, got)
		})
	}

	t.Run("empty chain", func(t *testing.T) {
		_, ok := NextEnclosing(nil, r0)
		assert.False(t, ok)
	})
}

func TestLargestEnclosed(t *testing.T) {
	r0 := textrange.NewRange(4, 0, 4, 10)
	r1 := textrange.NewRange(2, 0, 6, 1)
	r2 := textrange.NewRange(0, 0, 9, 0)
	chain := textrange.Chain{r0, r1, r2}

	got, ok := LargestEnclosed(chain, r2)
	assert.True(t, ok)
	assert.Equal(t, r1, got)

	got, ok = LargestEnclosed(chain, r1)
	assert.True(t, ok)
	assert.Equal(t, r0, got)

	_, ok = LargestEnclosed(chain, r0)
	assert.False(t, ok)
}
