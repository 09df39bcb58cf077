package renderer

import (
	"container/list"
	"sync"
)

// defaultCacheSize is the derivation cache capacity when WithCache is not
// supplied.
const defaultCacheSize = 1024

// cacheKey addresses one derivation result. Any mutation of the object,
// its material, or the camera produces a new key, so stale entries simply
// age out.
type cacheKey struct {
	objectID       uint64
	generation     uint64
	pipelineKey    string
	cameraRevision uint64
}

// deriveCache is a bounded LRU of derivation results. Writes move entries
// to the front; the back entry is evicted at capacity.
type deriveCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[cacheKey]*list.Element
}

type cacheEntry struct {
	key cacheKey
	set RenderSet
}

func newDeriveCache(capacity int) *deriveCache {
	if capacity < 1 {
		capacity = defaultCacheSize
	}
	return &deriveCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[cacheKey]*list.Element, capacity),
	}
}

// get returns the cached set for the key and whether it was present.
// Cached sets are shared, so callers must treat them as read-only.
func (c *deriveCache) get(key cacheKey) (RenderSet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.entries[key]
	if !ok {
		return RenderSet{}, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).set, true
}

// put stores a derivation result, evicting the least recently used entry
// when the cache is full.
func (c *deriveCache) put(key cacheKey, set RenderSet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[key]; ok {
		elem.Value.(*cacheEntry).set = set
		c.order.MoveToFront(elem)
		return
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, set: set})
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

// len returns the number of cached entries.
func (c *deriveCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
