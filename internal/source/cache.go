package source

import (
	"container/list"
	"image"
	"log"
	"sync"
)

// DefaultMaxEntries bounds the number of decoded sources kept in memory.
const DefaultMaxEntries = 64

// LoaderFunc decodes the image at path. It runs off the UI goroutine.
type LoaderFunc func(path string) (image.Image, error)

// Cache is an explicit, injected service that owns every decoded Source.
// Entries are keyed by file path, shared read-only by all scene objects
// referencing the same image, and evicted least-recently-used.
type Cache struct {
	mu         sync.Mutex
	maxEntries int
	loader     LoaderFunc
	entries    map[string]*list.Element
	lru        *list.List // front = most recently used

	// onReady is invoked (on the loader goroutine) when an async decode
	// finishes, so the host can schedule a repaint.
	onReady func(path string)
}

type cacheEntry struct {
	path   string
	source *Source
}

// NewCache creates a cache holding at most maxEntries decoded sources.
// A maxEntries <= 0 falls back to DefaultMaxEntries.
func NewCache(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		maxEntries: maxEntries,
		loader:     Decode,
		entries:    make(map[string]*list.Element),
		lru:        list.New(),
	}
}

// SetLoader replaces the decode function. Used by tests and by hosts that
// supply bytes from elsewhere than the local filesystem.
func (c *Cache) SetLoader(loader LoaderFunc) {
	c.mu.Lock()
	c.loader = loader
	c.mu.Unlock()
}

// OnReady registers the completion callback for asynchronous decodes.
func (c *Cache) OnReady(fn func(path string)) {
	c.mu.Lock()
	c.onReady = fn
	c.mu.Unlock()
}

// Get returns the Source for path, starting an asynchronous decode on first
// use. The returned Source may not be Ready yet; the scene renders a
// placeholder box until it is.
func (c *Cache) Get(path string) *Source {
	c.mu.Lock()

	if el, ok := c.entries[path]; ok {
		c.lru.MoveToFront(el)
		src := el.Value.(*cacheEntry).source
		c.mu.Unlock()
		return src
	}

	src := &Source{Path: path, state: stateLoading}
	el := c.lru.PushFront(&cacheEntry{path: path, source: src})
	c.entries[path] = el
	c.evictLocked()
	loader := c.loader
	c.mu.Unlock()

	go func() {
		img, err := loader(path)
		src.complete(img, err)
		if err != nil {
			log.Printf("source: failed to load %s: %v", path, err)
		}
		c.mu.Lock()
		ready := c.onReady
		c.mu.Unlock()
		if ready != nil {
			ready(path)
		}
	}()

	return src
}

// Peek returns the cached Source without loading or touching LRU order.
func (c *Cache) Peek(path string) *Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[path]; ok {
		return el.Value.(*cacheEntry).source
	}
	return nil
}

// Invalidate drops the entry for path, forcing a reload on next Get.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[path]; ok {
		c.lru.Remove(el)
		delete(c.entries, path)
	}
}

// Len returns the number of cached sources.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictLocked drops least-recently-used entries beyond the limit.
// Callers must hold c.mu.
func (c *Cache) evictLocked() {
	for len(c.entries) > c.maxEntries {
		oldest := c.lru.Back()
		if oldest == nil {
			return
		}
		entry := oldest.Value.(*cacheEntry)
		c.lru.Remove(oldest)
		delete(c.entries, entry.path)
	}
}
