// Package cache provides project-scoped memoization shared between many
// short-lived resolution sessions.
//
// Entries are grouped by ProjectID and dropped together when the project's
// source state changes (see Service.SourceStateChanged). All methods are safe
// for concurrent use.
package cache

import (
	"sync"
	"sync/atomic"
)

// ProjectID identifies the project that owns cache entries.
type ProjectID uint64

// Stats counts lookups served from the cache and computed on miss.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// Invalidator is implemented by every Cache regardless of its type arguments.
type Invalidator interface {
	Name() string
	Invalidate(project ProjectID)
	Stats() Stats
}

// Cache maps keys to values per project.
type Cache[K comparable, V any] struct {
	name      string
	mu        sync.Mutex
	byProject map[ProjectID]map[K]V
	hits      atomic.Uint64
	misses    atomic.Uint64
}

// New creates an empty cache.
func New[K comparable, V any](name string) *Cache[K, V] {
	return &Cache[K, V]{
		name:      name,
		byProject: make(map[ProjectID]map[K]V),
	}
}

// Name returns the diagnostic name of the cache.
func (c *Cache[K, V]) Name() string { return c.name }

// GetOrPut returns the cached value for key or computes it. compute runs
// without holding the lock, so concurrent misses may compute twice; the first
// inserted value wins and is returned to both callers.
func (c *Cache[K, V]) GetOrPut(project ProjectID, key K, compute func() V) V {
	c.mu.Lock()
	if v, ok := c.byProject[project][key]; ok {
		c.mu.Unlock()
		c.hits.Add(1)
		return v
	}
	c.mu.Unlock()

	c.misses.Add(1)
	v := compute()

	c.mu.Lock()
	defer c.mu.Unlock()
	entries := c.byProject[project]
	if entries == nil {
		entries = make(map[K]V)
		c.byProject[project] = entries
	}
	if existing, ok := entries[key]; ok {
		return existing
	}
	entries[key] = v
	return v
}

// Get returns the cached value without computing it.
func (c *Cache[K, V]) Get(project ProjectID, key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.byProject[project][key]
	return v, ok
}

// Len returns the number of entries held for project.
func (c *Cache[K, V]) Len(project ProjectID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byProject[project])
}

// Invalidate drops every entry owned by project.
func (c *Cache[K, V]) Invalidate(project ProjectID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byProject, project)
}

// Stats returns the hit/miss counters.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}
