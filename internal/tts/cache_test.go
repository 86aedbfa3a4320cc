package tts

import (
	"fmt"
	"testing"
)

func TestCacheKey(t *testing.T) {
	if got := CacheKey("t1", "aria", "speech-1"); got != "t1:aria:speech-1" {
		t.Errorf("key = %q", got)
	}
}

func TestMemoryCache_GetPut(t *testing.T) {
	c := NewMemoryCache(10)
	if _, ok := c.Get("missing"); ok {
		t.Error("Get on empty cache reported a hit")
	}
	c.Put("k1", "audio1")
	got, ok := c.Get("k1")
	if !ok || got != "audio1" {
		t.Errorf("Get(k1) = %q, %v", got, ok)
	}
}

func TestMemoryCache_PutReplaces(t *testing.T) {
	c := NewMemoryCache(10)
	c.Put("k1", "old")
	c.Put("k1", "new")
	if got, _ := c.Get("k1"); got != "new" {
		t.Errorf("Get(k1) = %q, want new", got)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	c := NewMemoryCache(10)
	c.Put("k1", "audio")
	c.Put("k2", "audio")
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", c.Len())
	}
	if _, ok := c.Get("k1"); ok {
		t.Error("k1 survived Clear")
	}
	c.Put("k3", "audio")
	if _, ok := c.Get("k3"); !ok {
		t.Error("cache unusable after Clear")
	}
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewMemoryCache(3)
	for i := 0; i < 3; i++ {
		c.Put(fmt.Sprintf("k%d", i), "audio")
	}

	// Touch k0 so k1 becomes the eviction candidate.
	c.Get("k0")
	c.Put("k3", "audio")

	if _, ok := c.Get("k1"); ok {
		t.Error("k1 survived eviction")
	}
	for _, k := range []string{"k0", "k2", "k3"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s was evicted", k)
		}
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}
