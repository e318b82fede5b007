package expand

import "github.com/avitaltamir/vibeselect/internal/textrange"

// NextEnclosing returns the first range in chain, scanning innermost first,
// that strictly contains sel. Because the chain widens outward, the first
// match is the minimal enclosing larger range.
func NextEnclosing(chain textrange.Chain, sel textrange.Range) (textrange.Range, bool) {
	for _, r := range chain {
		if r.StrictlyContains(sel) {
			return r, true
		}
	}
	return textrange.Range{}, false
}

// LargestEnclosed returns the widest range in chain that sel strictly
// contains. It is the inverse step of NextEnclosing for a chain built around
// the start of sel.
func LargestEnclosed(chain textrange.Chain, sel textrange.Range) (textrange.Range, bool) {
	for i := len(chain) - 1; i >= 0; i-- {
		if sel.StrictlyContains(chain[i]) {
			return chain[i], true
		}
	}
	return textrange.Range{}, false
}
