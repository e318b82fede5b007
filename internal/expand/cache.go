package expand

import (
	"sync"
	"time"

	"github.com/avitaltamir/vibeselect/internal/textrange"
)

const (
	// DefaultTTL is how long a fetched chain stays usable.
	DefaultTTL = 2000 * time.Millisecond

	// StaleAfter bounds how long any entry is kept before the periodic prune drops it.
	StaleAfter = 5 * time.Minute
)

type cacheEntry struct {
	chain     textrange.Chain
	fetchedAt time.Time
}

// Cache holds the last chain fetched for each document. Expiry is checked
// when an entry is read; nothing runs in the background.
type Cache struct {
	mu      sync.Mutex
	entries map[DocumentID]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates a cache with the given TTL and clock. A zero ttl means
// DefaultTTL and a nil clock means time.Now.
func NewCache(ttl time.Duration, now func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{
		entries: make(map[DocumentID]cacheEntry),
		ttl:     ttl,
		now:     now,
	}
}

// Get returns a copy of doc's chain if one was stored within the TTL.
func (c *Cache) Get(doc DocumentID) (textrange.Chain, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[doc]
	if !ok || c.now().Sub(e.fetchedAt) > c.ttl {
		return nil, false
	}
	return e.chain.Clone(), true
}

// Set stores chain for doc, stamped with the current time.
func (c *Cache) Set(doc DocumentID, chain textrange.Chain) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[doc] = cacheEntry{chain: chain.Clone(), fetchedAt: c.now()}
}

// Invalidate drops doc's entry.
func (c *Cache) Invalidate(doc DocumentID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, doc)
}

// PruneOlderThan drops every entry fetched more than maxAge ago and
// returns how many were dropped.
func (c *Cache) PruneOlderThan(maxAge time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	pruned := 0
	for doc, e := range c.entries {
		if now.Sub(e.fetchedAt) > maxAge {
			delete(c.entries, doc)
			pruned++
		}
	}
	return pruned
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
