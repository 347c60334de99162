package geocode

import (
	"container/list"
	"fmt"
	"math"
	"sync"
	"time"
)

type cacheEntry struct {
	key      string
	name     string
	storedAt time.Time
}

// Cache remembers resolved place names keyed by coordinates rounded to five
// decimal places (roughly one metre). It is safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]*list.Element
	order      *list.List // front is oldest
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

// NewCache creates an empty cache. By default it is unbounded and entries never expire.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the cache key for a coordinate.
func Key(lat, lng float64) string {
	return fmt.Sprintf("%.5f,%.5f", roundCoord(lat), roundCoord(lng))
}

// roundCoord rounds to five decimals. Values that round to zero from below
// come back as -0, which %f prints as "-0.00000", so they are folded into +0.
func roundCoord(v float64) float64 {
	r := math.Round(v*1e5) / 1e5
	if r == 0 {
		return 0
	}
	return r
}

// Get returns the cached name for a coordinate.
func (c *Cache) Get(lat, lng float64) (string, bool) {
	key := Key(lat, lng)

	c.mu.RLock()
	elem, ok := c.entries[key]
	var entry cacheEntry
	if ok {
		entry = *elem.Value.(*cacheEntry)
	}
	c.mu.RUnlock()

	if !ok {
		return "", false
	}
	if c.expired(entry) {
		c.mu.Lock()
		if elem, ok := c.entries[key]; ok && c.expired(*elem.Value.(*cacheEntry)) {
			c.remove(elem)
		}
		c.mu.Unlock()
		return "", false
	}
	return entry.name, true
}

// Put stores a name for a coordinate. Storing the same key again replaces the
// name and refreshes its age.
func (c *Cache) Put(lat, lng float64, name string) {
	key := Key(lat, lng)

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*cacheEntry)
		entry.name = name
		entry.storedAt = c.now()
		c.order.MoveToBack(elem)
		return
	}

	if c.maxEntries > 0 {
		for c.order.Len() >= c.maxEntries {
			c.remove(c.order.Front())
		}
	}

	c.entries[key] = c.order.PushBack(&cacheEntry{key: key, name: name, storedAt: c.now()})
}

// Len returns the number of cached names, including any not yet expired lazily.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) expired(entry cacheEntry) bool {
	return c.ttl > 0 && c.now().Sub(entry.storedAt) >= c.ttl
}

// remove must be called with c.mu held for writing.
func (c *Cache) remove(elem *list.Element) {
	entry := c.order.Remove(elem).(*cacheEntry)
	delete(c.entries, entry.key)
}
