package syntax

import (
	"context"

	"github.com/avitaltamir/vibeselect/internal/expand"
	"github.com/avitaltamir/vibeselect/internal/textrange"
)

// Source is implemented by editors that can hand their text to the selector.
type Source interface {
	Text() string
	Language() string
}

// Fallback is the host's native expand and shrink. Editors that do not
// implement Source are left untouched.
type Fallback struct {
	selector *Selector
}

// NewFallback creates a fallback that selects through selector's chains.
func NewFallback(selector *Selector) *Fallback {
	return &Fallback{selector: selector}
}

// NativeExpand grows the selection to the smallest syntax scope around it.
// Nothing changes when the selection already covers the document.
func (f *Fallback) NativeExpand(ctx context.Context, ed expand.Editor) {
	src, ok := ed.(Source)
	if !ok {
		return
	}
	sel := ed.Selection().ZeroBased().Normalized()
	chain := f.selector.Chain(ctx, src.Text(), src.Language(), sel)
	if next, ok := expand.NextEnclosing(chain, sel); ok {
		ed.SetSelection(next.OneBased())
	}
}

// NativeShrink narrows to the largest scope inside the selection that holds
// its start, or collapses the selection to its start.
func (f *Fallback) NativeShrink(ctx context.Context, ed expand.Editor) {
	src, ok := ed.(Source)
	if !ok {
		return
	}
	sel := ed.Selection().ZeroBased().Normalized()
	if sel.IsEmpty() {
		return
	}
	chain := f.selector.Chain(ctx, src.Text(), src.Language(), textrange.At(sel.Start))
	if inner, ok := expand.LargestEnclosed(chain, sel); ok {
		ed.SetSelection(inner.OneBased())
		return
	}
	ed.SetSelection(textrange.At(sel.Start).OneBased())
}
