package tts

import (
	"container/list"
	"fmt"
	"sync"
)

// CacheKey builds the cache key for one turn's audio. The voice and
// model are part of the key so changing either forces re-synthesis.
func CacheKey(id, voice, model string) string {
	return fmt.Sprintf("%s:%s:%s", id, voice, model)
}

// Cache stores synthesized audio (base64 PCM) by key.
type Cache interface {
	Get(key string) (string, bool)
	Put(key, audio string)
	Clear()
}

// MemoryCache is a thread-safe LRU cache. When full, the least
// recently used entry is evicted. Both Get and Put refresh recency.
type MemoryCache struct {
	mu      sync.Mutex
	maxSize int
	order   *list.List
	entries map[string]*list.Element
}

type cacheEntry struct {
	key   string
	audio string
}

// NewMemoryCache creates a cache holding at most maxSize entries.
func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &MemoryCache{
		maxSize: maxSize,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

// Get returns the cached audio for key, if present.
func (c *MemoryCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return "", false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).audio, true
}

// Put stores audio under key, evicting the least recently used entry
// if the cache is full.
func (c *MemoryCache) Put(key, audio string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).audio = audio
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.maxSize {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).key)
		}
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, audio: audio})
}

// Clear drops every cached entry.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.entries = make(map[string]*list.Element)
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
