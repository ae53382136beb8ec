// Package cache memoizes ExecutionResults keyed by execution.Key. There is
// no TTL and no eviction: entries live for the process lifetime once
// inserted, per the accepted scale trade-off in the design notes.
package cache

import (
	"sync"

	"scriptrunner/internal/domain/execution"
)

// Cache is a concurrency-safe map from execution.Key to execution.Result.
// insert is overwrite-safe: concurrent inserts of the same key resolve to
// the last writer, which is acceptable because the value is a pure
// function of the key.
type Cache struct {
	mu      sync.RWMutex
	entries map[execution.Key]execution.Result
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{entries: make(map[execution.Key]execution.Result)}
}

// Lookup is a pure, non-suspending read.
func (c *Cache) Lookup(key execution.Key) (execution.Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result, ok := c.entries[key]
	return result, ok
}

// Insert stores result under key. Lookups and inserts are serialized with
// respect to each other: once Insert returns, any subsequent Lookup of the
// same key observes it.
func (c *Cache) Insert(key execution.Key, result execution.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = result
}

// Len reports the number of cached entries, exposed as a metrics gauge.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
