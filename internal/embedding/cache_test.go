package embedding

import "testing"

func TestEmbeddingCache_GetSet(t *testing.T) {
	c := NewEmbeddingCache(2)
	if _, ok := c.Get("missing"); ok {
		t.Error("unexpected hit")
	}
	c.Set("a", []float32{1})
	if v, ok := c.Get("a"); !ok || v[0] != 1 {
		t.Errorf("Get(a)=%v,%t", v, ok)
	}
}

func TestEmbeddingCache_Eviction(t *testing.T) {
	c := NewEmbeddingCache(2)
	c.Set("a", []float32{1})
	c.Set("b", []float32{2})
	c.Get("a") // refresh a; b is now oldest
	c.Set("c", []float32{3})
	if c.Len() != 2 {
		t.Fatalf("Len=%d, want 2", c.Len())
	}
	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should still be cached")
	}
}
