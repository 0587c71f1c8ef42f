// Package query caches server state by key. Concurrent fetches for one key
// share a single request, fresh entries are served from memory and
// invalidated entries stay readable until the next fetch replaces them.
package query

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key identifies one cached query.
type Key string

// ListKey is the key of the full blog list.
const ListKey Key = "blogs"

// BlogKey is the key of a single blog.
func BlogKey(id string) Key { return Key("blog/" + id) }

type entry struct {
	value     any
	fetchedAt time.Time
	stale     bool
}

// Cache is safe for concurrent use.
type Cache struct {
	mu        sync.Mutex
	entries   map[Key]entry
	group     singleflight.Group
	staleTime time.Duration
	now       func() time.Time
}

// New returns a cache whose entries are fresh for staleTime. A zero
// staleTime refetches on every Fetch, still deduplicating in-flight calls.
func New(staleTime time.Duration) *Cache {
	return &Cache{
		entries:   map[Key]entry{},
		staleTime: staleTime,
		now:       time.Now,
	}
}

// Fetch returns the cached value for key if fresh, otherwise runs fn once
// for all concurrent callers and stores its result. Errors are not cached.
func (c *Cache) Fetch(ctx context.Context, key Key, fn func(context.Context) (any, error)) (any, error) {
	if v, ok := c.fresh(key); ok {
		return v, nil
	}
	v, err, _ := c.group.Do(string(key), func() (any, error) {
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(key, v)
		return v, nil
	})
	return v, err
}

// Peek returns whatever is cached for key, fresh or not.
func (c *Cache) Peek(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Set stores v for key as freshly fetched.
func (c *Cache) Set(key Key, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: v, fetchedAt: c.now()}
}

// Invalidate marks every entry whose key starts with prefix as stale and
// reports how many were marked.
func (c *Cache) Invalidate(prefix Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.entries {
		if strings.HasPrefix(string(k), string(prefix)) {
			e.stale = true
			c.entries[k] = e
			n++
		}
	}
	return n
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[Key]entry{}
}

func (c *Cache) fresh(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || e.stale || c.staleTime <= 0 {
		return nil, false
	}
	if c.now().Sub(e.fetchedAt) >= c.staleTime {
		return nil, false
	}
	return e.value, true
}
