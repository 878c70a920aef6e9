package analyze

import (
	"container/list"
	"sync"

	"github.com/dgryski/go-farm"
)

// Cache remembers reports by source text, evicting the least recently used entry when
// full. It is safe for concurrent use.
type Cache struct {
	mu        sync.Mutex
	entries   map[uint64]*list.Element
	evictList *list.List
	maxSize   int
	hits      int
	misses    int
}

type cacheEntry struct {
	key    uint64
	report Report
}

// NewCache creates a report cache holding at most maxSize reports (0 or negative means
// the default of 128).
func NewCache(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = 128
	}
	return &Cache{
		entries:   make(map[uint64]*list.Element),
		evictList: list.New(),
		maxSize:   maxSize,
	}
}

// Estimate returns the cached report for src, analyzing it on a miss.
func (c *Cache) Estimate(src string) Report {
	key := farm.Hash64([]byte(src))
	c.mu.Lock()
	if elem, ok := c.entries[key]; ok {
		c.evictList.MoveToFront(elem)
		c.hits++
		r := elem.Value.(*cacheEntry).report
		c.mu.Unlock()
		return r.clone()
	}
	c.misses++
	c.mu.Unlock()

	r := Estimate(src)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.add(key, r)
	return r.clone()
}

func (c *Cache) add(key uint64, r Report) {
	if elem, ok := c.entries[key]; ok {
		c.evictList.MoveToFront(elem)
		elem.Value.(*cacheEntry).report = r
		return
	}
	elem := c.evictList.PushFront(&cacheEntry{key: key, report: r})
	c.entries[key] = elem
	if c.evictList.Len() > c.maxSize {
		oldest := c.evictList.Back()
		c.evictList.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

type CacheStats struct {
	Size    int
	MaxSize int
	Hits    int
	Misses  int
}

func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Size:    len(c.entries),
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
	}
}
