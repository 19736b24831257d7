package program

import (
	"sync"

	"github.com/zeebo/xxh3"
)

// Cache keeps resolved programs so that repeated runs of the same source are
// translated only once. It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[uint64]cacheEntry

	hits, misses uint64
}

type cacheEntry struct {
	src  string
	prog *Program
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[uint64]cacheEntry),
	}
}

// Get returns the resolved program for src, translating it on first use.
// Translation errors are not cached.
func (c *Cache) Get(src string) (*Program, error) {
	key := xxh3.HashString(src)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && e.src == src {
		c.hits++
		c.mu.Unlock()
		return e.prog, nil
	}
	c.misses++
	c.mu.Unlock()

	p, err := Translate(src)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// On a hash collision the first source keeps the slot.
	if e, ok := c.entries[key]; ok {
		if e.src == src {
			return e.prog, nil
		}
		return p, nil
	}
	c.entries[key] = cacheEntry{src: src, prog: p}

	return p, nil
}

// Len returns the number of cached programs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns the number of cache hits and misses so far.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
