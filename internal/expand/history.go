package expand

import (
	"sync"

	"github.com/avitaltamir/vibeselect/internal/textrange"
)

// History keeps, per document, the path of selections visited by expand so
// that shrink can retrace it. The store owns every range; callers get copies.
type History struct {
	mu     sync.Mutex
	stacks map[DocumentID][]textrange.Range
}

// NewHistory creates an empty history store.
func NewHistory() *History {
	return &History{stacks: make(map[DocumentID][]textrange.Range)}
}

// Clear drops the path recorded for doc.
func (h *History) Clear(doc DocumentID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.stacks, doc)
}

// Push appends r to doc's path unless it equals the last entry.
func (h *History) Push(doc DocumentID, r textrange.Range) {
	h.mu.Lock()
	defer h.mu.Unlock()

	stack := h.stacks[doc]
	if n := len(stack); n > 0 && stack[n-1] == r {
		return
	}
	h.stacks[doc] = append(stack, r)
}

// Pop removes the top entry and returns the new top. With fewer than two
// entries there is nothing to step back into: it returns false and leaves
// the path untouched.
func (h *History) Pop(doc DocumentID) (textrange.Range, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	stack := h.stacks[doc]
	if len(stack) < 2 {
		return textrange.Range{}, false
	}
	stack = stack[:len(stack)-1]
	h.stacks[doc] = stack
	return stack[len(stack)-1], true
}

// PeekLast returns the top entry without removing it.
func (h *History) PeekLast(doc DocumentID) (textrange.Range, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	stack := h.stacks[doc]
	if len(stack) == 0 {
		return textrange.Range{}, false
	}
	return stack[len(stack)-1], true
}

// Depth returns the number of entries recorded for doc.
func (h *History) Depth(doc DocumentID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.stacks[doc])
}
