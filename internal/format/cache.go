package format

import (
	"container/list"
	"sync"
)

// Cache is a fixed-capacity string cache with evict-oldest-on-insert. Lookups
// refresh recency. It exists to keep per-frame formatting of the same values
// allocation-free.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front = most recent
	entries  map[float64]*list.Element
}

type cacheEntry struct {
	key   float64
	value string
}

func NewCache(capacity int) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[float64]*list.Element, capacity),
	}
}

// Amount formats v through the cache.
func (c *Cache) Amount(v float64) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[v]; ok {
		c.order.MoveToFront(el)
		return el.Value.(cacheEntry).value
	}

	s := Amount(v)
	el := c.order.PushFront(cacheEntry{key: v, value: s})
	c.entries[v] = el

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(cacheEntry).key)
	}
	return s
}

// Len reports the current number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
