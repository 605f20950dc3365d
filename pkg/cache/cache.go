// Package cache keeps compiled programs keyed by the hash of their source
// document, so a document applied to many events is compiled once.
//
// Entries are evicted least recently used first. Concurrent misses on the
// same key share a single compilation.
//
// # Example
//
//	c := cache.New(1024)
//	p, err := c.GetOrCompile(doc.Hash(), func() (*program.Program, error) {
//	    return config.Compile(doc, stdlib.Registry())
//	})
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/sandrolain/goremap/pkg/program"
)

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 256

type entry struct {
	key     string
	program *program.Program
}

// Cache is an LRU cache of compiled programs. It is safe for concurrent use.
type Cache struct {
	mu       sync.RWMutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element

	group  singleflight.Group
	hits   atomic.Uint64
	misses atomic.Uint64
}

// New creates a cache holding at most capacity programs.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Get returns the program cached under key and marks it most recently used.
func (c *Cache) Get(key string) (*program.Program, bool) {
	c.mu.RLock()
	el, ok := c.items[key]
	front := ok && c.ll.Front() == el
	c.mu.RUnlock()
	if !ok {
		c.misses.Add(1)
		return nil, false
	}

	if !front {
		// The entry may have been evicted between the two locks.
		c.mu.Lock()
		el, ok = c.items[key]
		if ok {
			c.ll.MoveToFront(el)
		}
		c.mu.Unlock()
		if !ok {
			c.misses.Add(1)
			return nil, false
		}
	}

	c.hits.Add(1)
	return el.Value.(*entry).program, true
}

// Set stores p under key, evicting the least recently used entry when full.
func (c *Cache) Set(key string, p *program.Program) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*entry).program = p
		c.ll.MoveToFront(el)
		return
	}

	if c.ll.Len() >= c.capacity {
		c.evictLocked()
	}
	c.items[key] = c.ll.PushFront(&entry{key: key, program: p})
}

// GetOrCompile returns the program cached under key or compiles and caches
// it. Concurrent callers missing the same key wait for one compile call.
// Errors are not cached.
func (c *Cache) GetOrCompile(key string, compile func() (*program.Program, error)) (*program.Program, error) {
	if p, ok := c.Get(key); ok {
		return p, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if p, ok := c.peek(key); ok {
			return p, nil
		}
		p, err := compile()
		if err != nil {
			return nil, err
		}
		c.Set(key, p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*program.Program), nil
}

// peek looks up key without touching recency or statistics.
func (c *Cache) peek(key string) (*program.Program, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if el, ok := c.items[key]; ok {
		return el.Value.(*entry).program, true
	}
	return nil, false
}

// Len returns the number of cached programs.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Capacity returns the maximum number of cached programs.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Stats returns the number of lookups that hit and missed.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Invalidate removes key from the cache.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.ll.Remove(el)
		delete(c.items, key)
	}
}

// Clear empties the cache. Statistics are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[string]*list.Element, c.capacity)
}

// evictLocked drops the least recently used entry. c.mu must be held for
// writing.
func (c *Cache) evictLocked() {
	el := c.ll.Back()
	if el == nil {
		return
	}
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}
