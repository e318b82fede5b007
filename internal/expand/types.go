package expand

import (
	"context"

	"github.com/avitaltamir/vibeselect/internal/textrange"
)

// DocumentID scopes all per-document state. It is usually a file URI.
type DocumentID string

// Editor is the live selection surface of one open document.
// Cursor and selection are one-based.
type Editor interface {
	// Document identifies the document being edited
	Document() DocumentID

	// Cursor returns the active end of the selection
	Cursor() textrange.Point

	// Selection returns the current selection, start not after end
	Selection() textrange.Span

	// SetSelection replaces the selection; the cursor lands on its end
	SetSelection(span textrange.Span)
}

// RangeProvider answers hierarchical range queries for one position.
// A nil chain with a nil error means the provider has no data.
type RangeProvider interface {
	SelectionRanges(ctx context.Context, doc DocumentID, pos textrange.Position) (textrange.Chain, error)
}

// ProviderFunc adapts a function to the RangeProvider interface.
type ProviderFunc func(ctx context.Context, doc DocumentID, pos textrange.Position) (textrange.Chain, error)

// SelectionRanges calls f.
func (f ProviderFunc) SelectionRanges(ctx context.Context, doc DocumentID, pos textrange.Position) (textrange.Chain, error) {
	return f(ctx, doc, pos)
}

// Fallback is the host editor's own syntax-only expand and shrink.
// Both calls mutate the editor selection synchronously.
type Fallback interface {
	NativeExpand(ctx context.Context, ed Editor)
	NativeShrink(ctx context.Context, ed Editor)
}

type nopFallback struct{}

func (nopFallback) NativeExpand(context.Context, Editor) {}
func (nopFallback) NativeShrink(context.Context, Editor) {}

// Status describes how a chain lookup ended.
type Status int

const (
	// StatusSkipped means no provider is configured
	StatusSkipped Status = iota
	// StatusResolved means a non-empty chain is available
	StatusResolved
	// StatusUnavailable means the provider answered with no data
	StatusUnavailable
	// StatusFailed means the provider returned an error
	StatusFailed
	// StatusTimedOut means the provider did not answer in time
	StatusTimedOut
)

// String returns the status name for the status bar and logs.
func (s Status) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusResolved:
		return "resolved"
	case StatusUnavailable:
		return "unavailable"
	case StatusFailed:
		return "failed"
	case StatusTimedOut:
		return "timed out"
	default:
		return "unknown"
	}
}

// Lookup is the typed result of resolving a chain for a document.
type Lookup struct {
	Status Status
	Chain  textrange.Chain
	Cached bool  // served from the range cache
	Err    error // set for StatusFailed and StatusTimedOut
}

// Action tells what an expand or shrink call ended up doing.
type Action int

const (
	// ActionExpanded grew the selection along the provider chain
	ActionExpanded Action = iota
	// ActionNativeExpanded delegated to the fallback expand
	ActionNativeExpanded
	// ActionShrunk restored the previous range from history
	ActionShrunk
	// ActionNativeShrunk delegated to the fallback shrink
	ActionNativeShrunk
	// ActionBusy rejected the call because one is in flight for the document
	ActionBusy
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionExpanded:
		return "expanded"
	case ActionNativeExpanded:
		return "expanded (syntax)"
	case ActionShrunk:
		return "shrunk"
	case ActionNativeShrunk:
		return "shrunk (syntax)"
	case ActionBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// Outcome reports a finished expand or shrink call.
type Outcome struct {
	Action    Action
	Lookup    Lookup          // zero for shrink and busy calls
	Selection textrange.Range // zero-based selection after the call
}
