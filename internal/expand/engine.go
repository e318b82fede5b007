// Package expand implements hierarchical selection expansion: each expand grows
// the selection to the smallest enclosing scope reported by a range provider,
// and each shrink retraces the path exactly.
//
// Per-document state is a history of visited selections, a short-lived cache
// of the last provider chain, and the cursor position left behind by the last
// call. When the cursor is found anywhere else, the user moved it by hand and
// the path starts over.
package expand

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avitaltamir/vibeselect/internal/textrange"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/singleflight"
)

// DefaultProviderTimeout bounds how long an expand waits for the provider.
const DefaultProviderTimeout = time.Second

// maxQueryAge bounds a provider query itself. A query outlives the expand
// that started it by up to this long; later expands join it and a late
// chain is still cached.
const maxQueryAge = 30 * time.Second

var log = commonlog.GetLogger("vibeselect.expand")

// Options configures an Engine.
type Options struct {
	// ProviderTimeout bounds each provider query (default DefaultProviderTimeout)
	ProviderTimeout time.Duration

	// Now overrides the clock used by the range cache
	Now func() time.Time
}

// Engine runs expand and shrink for any number of documents.
type Engine struct {
	provider RangeProvider
	fallback Fallback
	history  *History
	cache    *Cache
	timeout  time.Duration
	queries  singleflight.Group

	mu       sync.Mutex
	markers  map[DocumentID]textrange.Position
	inFlight map[DocumentID]struct{}
	gens     map[DocumentID]uint64 // bumped whenever doc's cached chain is dropped
	epoch    uint64
}

// New creates an engine. provider may be nil, in which case every expand
// goes straight to the fallback. A nil fallback does nothing.
func New(provider RangeProvider, fallback Fallback, opts Options) *Engine {
	if fallback == nil {
		fallback = nopFallback{}
	}
	timeout := opts.ProviderTimeout
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	return &Engine{
		provider: provider,
		fallback: fallback,
		history:  NewHistory(),
		cache:    NewCache(DefaultTTL, opts.Now),
		timeout:  timeout,
		markers:  make(map[DocumentID]textrange.Position),
		inFlight: make(map[DocumentID]struct{}),
		gens:     make(map[DocumentID]uint64),
	}
}

// Expand grows ed's selection by one level.
func (e *Engine) Expand(ctx context.Context, ed Editor) Outcome {
	doc := ed.Document()
	if !e.acquire(doc) {
		return Outcome{Action: ActionBusy, Selection: ed.Selection().ZeroBased()}
	}
	defer e.release(doc)

	pos := ed.Cursor().ZeroBased()
	current := ed.Selection().ZeroBased().Normalized()

	e.resetIfMoved(doc, pos)
	e.history.Push(doc, current)

	lookup := e.resolve(ctx, doc, pos)
	if lookup.Status == StatusResolved {
		if next, ok := NextEnclosing(lookup.Chain, current); ok {
			ed.SetSelection(next.OneBased())
			e.history.Push(doc, next)
			e.mark(doc, ed)
			return Outcome{Action: ActionExpanded, Lookup: lookup, Selection: next}
		}
		log.Debugf("no range in the chain for %s grows %s", doc, current)
	}

	e.fallback.NativeExpand(ctx, ed)
	result := ed.Selection().ZeroBased().Normalized()
	e.history.Push(doc, result)
	e.mark(doc, ed)
	return Outcome{Action: ActionNativeExpanded, Lookup: lookup, Selection: result}
}

// Shrink steps ed's selection back along the recorded path, or asks the
// fallback to shrink when there is no path to retrace.
func (e *Engine) Shrink(ctx context.Context, ed Editor) Outcome {
	doc := ed.Document()
	if !e.acquire(doc) {
		return Outcome{Action: ActionBusy, Selection: ed.Selection().ZeroBased()}
	}
	defer e.release(doc)

	e.resetIfMoved(doc, ed.Cursor().ZeroBased())

	if prev, ok := e.history.Pop(doc); ok {
		ed.SetSelection(prev.OneBased())
		e.mark(doc, ed)
		return Outcome{Action: ActionShrunk, Selection: prev}
	}

	e.fallback.NativeShrink(ctx, ed)
	e.mark(doc, ed)
	return Outcome{Action: ActionNativeShrunk, Selection: ed.Selection().ZeroBased().Normalized()}
}

// Depth returns the length of doc's recorded path.
func (e *Engine) Depth(doc DocumentID) int {
	return e.history.Depth(doc)
}

// Invalidate drops doc's cached chain, e.g. after its content changed.
func (e *Engine) Invalidate(doc DocumentID) {
	e.bump(doc)
	e.cache.Invalidate(doc)
}

// Forget drops all state kept for doc. Call it when the document is closed.
func (e *Engine) Forget(doc DocumentID) {
	e.mu.Lock()
	delete(e.markers, doc)
	e.mu.Unlock()

	e.bump(doc)
	e.history.Clear(doc)
	e.cache.Invalidate(doc)
}

// Prune evicts cache entries older than StaleAfter. History is never pruned,
// so an expansion in progress keeps its path.
func (e *Engine) Prune() int {
	n := e.cache.PruneOlderThan(StaleAfter)
	if n > 0 {
		log.Debugf("pruned %d stale range cache entries", n)
	}
	return n
}

func (e *Engine) acquire(doc DocumentID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.inFlight[doc]; busy {
		return false
	}
	e.inFlight[doc] = struct{}{}
	return true
}

func (e *Engine) release(doc DocumentID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inFlight, doc)
}

// resetIfMoved starts a fresh path when the cursor is not where the last
// call left it.
func (e *Engine) resetIfMoved(doc DocumentID, pos textrange.Position) {
	e.mu.Lock()
	marker, ok := e.markers[doc]
	e.mu.Unlock()

	if !ok || marker == pos {
		return
	}
	log.Debugf("cursor moved from %s to %s in %s, resetting expansion", marker, pos, doc)
	e.bump(doc)
	e.history.Clear(doc)
	e.cache.Invalidate(doc)
}

// bump starts a new generation for doc so queries issued before it can
// neither be joined nor fill the cache. Entries are never deleted, which
// keeps a forgotten document from reusing an old generation.
func (e *Engine) bump(doc DocumentID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.epoch++
	e.gens[doc] = e.epoch
}

func (e *Engine) generation(doc DocumentID) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gens[doc]
}

func (e *Engine) mark(doc DocumentID, ed Editor) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.markers[doc] = ed.Cursor().ZeroBased()
}

// resolve returns the chain for doc from the cache or, on a miss, from the
// provider. At most one query per document generation is outstanding: a
// miss while one is running waits on it instead of starting another.
func (e *Engine) resolve(ctx context.Context, doc DocumentID, pos textrange.Position) Lookup {
	if chain, ok := e.cache.Get(doc); ok {
		return Lookup{Status: StatusResolved, Chain: chain, Cached: true}
	}
	if e.provider == nil {
		return Lookup{Status: StatusSkipped}
	}

	gen := e.generation(doc)
	key := fmt.Sprintf("%s#%d", doc, gen)

	// The query runs detached from ctx so a provider that ignores
	// cancellation cannot hold the keypress past the timeout, and a late
	// answer still lands in the cache.
	detached := context.WithoutCancel(ctx)
	replies := e.queries.DoChan(key, func() (any, error) {
		qctx, cancel := context.WithTimeout(detached, maxQueryAge)
		defer cancel()
		chain, err := e.provider.SelectionRanges(qctx, doc, pos)
		if err == nil && len(chain) > 0 && e.generation(doc) == gen {
			e.cache.Set(doc, chain)
		}
		return chain, err
	})

	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	var chain textrange.Chain
	var err error
	select {
	case r := <-replies:
		chain, _ = r.Val.(textrange.Chain)
		err = r.Err
		if r.Shared {
			log.Debugf("joined a pending range query for %s", doc)
		}
	case <-timer.C:
		err = context.DeadlineExceeded
	case <-ctx.Done():
		err = ctx.Err()
	}

	switch {
	case err != nil && errors.Is(err, context.DeadlineExceeded):
		log.Debugf("range provider timed out for %s at %s", doc, pos)
		return Lookup{Status: StatusTimedOut, Err: err}
	case err != nil:
		log.Debugf("range provider failed for %s at %s: %s", doc, pos, err)
		return Lookup{Status: StatusFailed, Err: err}
	case len(chain) == 0:
		return Lookup{Status: StatusUnavailable}
	}
	return Lookup{Status: StatusResolved, Chain: chain.Clone()}
}
