package embedding

import "testing"

func TestCacheHitAndMiss(t *testing.T) {
	c := NewEmbeddingCache(4)
	c.Set("hello", []float32{1, 2, 3})

	got, ok := c.Get("hello")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 3 || got[0] != 1 {
		t.Errorf("got %v", got)
	}
	if _, ok := c.Get("absent"); ok {
		t.Error("expected cache miss")
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewEmbeddingCache(2)
	c.Set("a", []float32{1})
	c.Set("b", []float32{2})

	// Touch "a" so "b" becomes the eviction candidate.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should be cached")
	}
	c.Set("c", []float32{3})

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should survive eviction")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestCacheSetExistingUpdatesValue(t *testing.T) {
	c := NewEmbeddingCache(2)
	c.Set("k", []float32{1})
	c.Set("k", []float32{9})

	got, _ := c.Get("k")
	if got[0] != 9 {
		t.Errorf("got %v, want updated value", got)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}
