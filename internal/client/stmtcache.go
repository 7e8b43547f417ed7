package client

import (
	"container/list"
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
)

// DefaultStmtCacheCapacity bounds the prepared statement cache when no
// explicit capacity is configured.
const DefaultStmtCacheCapacity = 256

// stmtCache stores prepared statements keyed by SQL text with LRU eviction.
// Compiled queries arriving from a query-builder repeat the same text with
// different parameters, so preparation cost is paid once per distinct shape.
type stmtCache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	order    *list.List

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type stmtEntry struct {
	key  string
	stmt *sql.Stmt
}

func newStmtCache(capacity int) *stmtCache {
	if capacity <= 0 {
		capacity = DefaultStmtCacheCapacity
	}
	return &stmtCache{
		capacity: capacity,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// get returns the cached statement for the given SQL text, promoting it to
// most recently used.
func (sc *stmtCache) get(key string) (*sql.Stmt, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	elem, ok := sc.items[key]
	if !ok {
		sc.misses.Add(1)
		return nil, false
	}
	sc.order.MoveToFront(elem)
	sc.hits.Add(1)
	return elem.Value.(*stmtEntry).stmt, true
}

// put stores a prepared statement, evicting and closing the least recently
// used entry when at capacity.
func (sc *stmtCache) put(key string, stmt *sql.Stmt) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if elem, ok := sc.items[key]; ok {
		sc.order.MoveToFront(elem)
		entry := elem.Value.(*stmtEntry)
		_ = entry.stmt.Close()
		entry.stmt = stmt
		return
	}

	if sc.order.Len() >= sc.capacity {
		sc.evictOldest()
	}
	sc.items[key] = sc.order.PushFront(&stmtEntry{key: key, stmt: stmt})
}

// evictOldest must be called with the lock held.
func (sc *stmtCache) evictOldest() {
	elem := sc.order.Back()
	if elem == nil {
		return
	}
	sc.order.Remove(elem)
	entry := elem.Value.(*stmtEntry)
	delete(sc.items, entry.key)
	_ = entry.stmt.Close()
	sc.evictions.Add(1)
}

// closeAll closes every cached statement and resets the cache.
func (sc *stmtCache) closeAll() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	for elem := sc.order.Front(); elem != nil; elem = elem.Next() {
		_ = elem.Value.(*stmtEntry).stmt.Close()
	}
	sc.items = make(map[string]*list.Element, sc.capacity)
	sc.order.Init()
}

// CacheStats reports prepared statement cache effectiveness.
type CacheStats struct {
	Size      int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	HitRate   float64
}

func (sc *stmtCache) stats() CacheStats {
	sc.mu.Lock()
	size := sc.order.Len()
	sc.mu.Unlock()

	hits := sc.hits.Load()
	misses := sc.misses.Load()

	rate := 0.0
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}
	return CacheStats{
		Size:      size,
		Capacity:  sc.capacity,
		Hits:      hits,
		Misses:    misses,
		Evictions: sc.evictions.Load(),
		HitRate:   rate,
	}
}

// prepared returns the cached statement for the SQL text, preparing and
// caching it on a miss.
func (sc *stmtCache) prepared(ctx context.Context, db *sql.DB, query string) (*sql.Stmt, error) {
	if stmt, ok := sc.get(query); ok {
		return stmt, nil
	}
	stmt, err := db.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	sc.put(query, stmt)
	return stmt, nil
}
