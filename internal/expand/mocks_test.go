package expand

import (
	"context"
	"sync"
	"time"

	"github.com/avitaltamir/vibeselect/internal/textrange"
	"github.com/stretchr/testify/mock"
)

// MockProvider implements RangeProvider for testing
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) SelectionRanges(ctx context.Context, doc DocumentID, pos textrange.Position) (textrange.Chain, error) {
	args := m.Called(ctx, doc, pos)
	chain, _ := args.Get(0).(textrange.Chain)
	return chain, args.Error(1)
}

// MockFallback implements Fallback for testing
type MockFallback struct {
	mock.Mock
}

func (m *MockFallback) NativeExpand(ctx context.Context, ed Editor) {
	m.Called(ctx, ed)
}

func (m *MockFallback) NativeShrink(ctx context.Context, ed Editor) {
	m.Called(ctx, ed)
}

// fakeEditor behaves like the host surface: setting a selection puts the
// cursor on its end.
type fakeEditor struct {
	doc    DocumentID
	anchor textrange.Point
	cursor textrange.Point
}

func newFakeEditor(doc DocumentID, sel textrange.Range) *fakeEditor {
	ed := &fakeEditor{doc: doc}
	ed.SetSelection(sel.OneBased())
	return ed
}

func (f *fakeEditor) Document() DocumentID    { return f.doc }
func (f *fakeEditor) Cursor() textrange.Point { return f.cursor }

func (f *fakeEditor) Selection() textrange.Span {
	a, c := f.anchor.ZeroBased(), f.cursor.ZeroBased()
	if c.Before(a) {
		return textrange.Span{Start: f.cursor, End: f.anchor}
	}
	return textrange.Span{Start: f.anchor, End: f.cursor}
}

func (f *fakeEditor) SetSelection(span textrange.Span) {
	f.anchor = span.Start
	f.cursor = span.End
}

// MoveTo collapses the selection to an empty cursor, like an arrow key would.
func (f *fakeEditor) MoveTo(pos textrange.Position) {
	f.anchor = pos.OneBased()
	f.cursor = pos.OneBased()
}

// current returns the zero-based selection.
func (f *fakeEditor) current() textrange.Range {
	return f.Selection().ZeroBased()
}

// setTo returns a mock Run func that makes the editor argument select r.
func setTo(r textrange.Range) func(mock.Arguments) {
	return func(args mock.Arguments) {
		args.Get(1).(Editor).SetSelection(r.OneBased())
	}
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
