// Package cache provides an LRU cache for prepared database statements.
//
// Cached statements are shared across executions, so the cache hands out
// pinned handles: an evicted statement is closed only once every handle to
// it has been released.
package cache

import (
	"container/list"
	"database/sql"
	"sync"
	"sync/atomic"
)

// DefaultCapacity is the default maximum number of cached prepared statements.
const DefaultCapacity = 1000

// StmtCache stores prepared statements keyed by SQL text with LRU eviction.
type StmtCache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	lru      *list.List

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// entry is one cached statement plus its pin accounting.
type entry struct {
	key     string
	stmt    *sql.Stmt
	pins    int
	evicted bool
}

// Handle is a pinned reference to a cached statement. The statement stays
// open at least until Release is called.
type Handle struct {
	cache *StmtCache
	e     *entry
}

// Stmt returns the pinned prepared statement.
func (h *Handle) Stmt() *sql.Stmt { return h.e.stmt }

// Release unpins the statement. If it was evicted while pinned, the last
// release closes it (best effort).
func (h *Handle) Release() {
	h.cache.mu.Lock()
	h.e.pins--
	closeNow := h.e.evicted && h.e.pins == 0
	h.cache.mu.Unlock()

	if closeNow {
		_ = h.e.stmt.Close()
	}
}

// New creates a statement cache with the default capacity.
func New() *StmtCache {
	return NewWithCapacity(DefaultCapacity)
}

// NewWithCapacity creates a statement cache holding at most capacity
// statements.
func NewWithCapacity(capacity int) *StmtCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &StmtCache{
		capacity: capacity,
		items:    make(map[string]*list.Element, capacity),
		lru:      list.New(),
	}
}

// Acquire returns a pinned handle to the statement cached under key, moving
// it to the front of the LRU order.
func (c *StmtCache) Acquire(key string) (*Handle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.lru.MoveToFront(elem)
	c.hits.Add(1)

	e := elem.Value.(*entry)
	e.pins++
	return &Handle{cache: c, e: e}, true
}

// Insert caches stmt under key and returns a pinned handle to the statement
// now cached there. If another statement was inserted under the same key in
// the meantime, the incoming stmt is closed and the existing one is pinned.
func (c *StmtCache) Insert(key string, stmt *sql.Stmt) *Handle {
	c.mu.Lock()

	if elem, ok := c.items[key]; ok {
		c.lru.MoveToFront(elem)
		e := elem.Value.(*entry)
		e.pins++
		c.mu.Unlock()
		_ = stmt.Close() // lost the race, drop the duplicate
		return &Handle{cache: c, e: e}
	}

	if c.lru.Len() >= c.capacity {
		c.evictOldest()
	}
	e := &entry{key: key, stmt: stmt, pins: 1}
	c.items[key] = c.lru.PushFront(e)
	c.mu.Unlock()
	return &Handle{cache: c, e: e}
}

// evictOldest removes the least recently used statement, skipping pinned
// ones. Must be called with the lock held; closing happens via pin
// accounting when the entry is pinned.
func (c *StmtCache) evictOldest() {
	for elem := c.lru.Back(); elem != nil; elem = elem.Prev() {
		e := elem.Value.(*entry)
		c.lru.Remove(elem)
		delete(c.items, e.key)
		e.evicted = true
		c.evictions.Add(1)
		if e.pins == 0 {
			_ = e.stmt.Close()
		}
		return
	}
}

// Clear evicts every cached statement. Unpinned statements are closed
// immediately, pinned ones when their last handle is released.
func (c *StmtCache) Clear() {
	c.mu.Lock()
	var toClose []*sql.Stmt
	for elem := c.lru.Front(); elem != nil; elem = elem.Next() {
		e := elem.Value.(*entry)
		e.evicted = true
		if e.pins == 0 {
			toClose = append(toClose, e.stmt)
		}
	}
	c.items = make(map[string]*list.Element, c.capacity)
	c.lru.Init()
	c.mu.Unlock()

	for _, stmt := range toClose {
		_ = stmt.Close()
	}
}

// Stats holds cache performance counters.
type Stats struct {
	Size      int     // current number of cached statements
	Capacity  int     // maximum capacity
	Hits      uint64  // successful lookups
	Misses    uint64  // failed lookups
	Evictions uint64  // evicted statements
	HitRate   float64 // hits / (hits + misses)
}

// Stats returns a snapshot of the cache counters.
func (c *StmtCache) Stats() Stats {
	c.mu.Lock()
	size := c.lru.Len()
	c.mu.Unlock()

	hits := c.hits.Load()
	misses := c.misses.Load()
	total := hits + misses
	rate := 0.0
	if total > 0 {
		rate = float64(hits) / float64(total)
	}
	return Stats{
		Size:      size,
		Capacity:  c.capacity,
		Hits:      hits,
		Misses:    misses,
		Evictions: c.evictions.Load(),
		HitRate:   rate,
	}
}
