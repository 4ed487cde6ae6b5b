package vector

import (
	"context"
	"math"
	"path/filepath"
	"testing"
)

func TestMemoryIndex_Query(t *testing.T) {
	idx, err := NewMemoryIndex(3)
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	ctx := context.Background()

	vecs := [][]float32{
		{1, 0, 0},
		{0.9, 0.1, 0},
		{0, 1, 0},
	}
	if err := idx.Build(ctx, vecs); err != nil {
		t.Fatal(err)
	}
	if idx.Size() != 3 {
		t.Errorf("Size=%d", idx.Size())
	}

	results, err := idx.Query(ctx, []float32{1, 0, 0}, 2, 0.0)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Index != 0 {
		t.Errorf("top result should be index 0, got %d", results[0].Index)
	}
	if results[0].Score < results[1].Score {
		t.Error("results not sorted by descending score")
	}
}

func TestMemoryIndex_ThresholdStrict(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	ctx := context.Background()
	_ = idx.Build(ctx, [][]float32{{1, 0}, {0, 1}})

	// {1,0} vs {1,0} scores exactly 1.0; vs {0,1} scores exactly 0.
	results, err := idx.Query(ctx, []float32{1, 0}, 5, 0.0)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range results {
		if c.Score <= 0.0 {
			t.Errorf("score %v not strictly above threshold", c.Score)
		}
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result above 0.0, got %d", len(results))
	}

	// Threshold at the exact score excludes the hit.
	results, err = idx.Query(ctx, []float32{1, 0}, 5, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("score equal to threshold must be excluded, got %d results", len(results))
	}
}

func TestMemoryIndex_TieBreakStable(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	ctx := context.Background()
	// Identical vectors at indices 0, 1, 2 tie exactly.
	_ = idx.Build(ctx, [][]float32{{1, 0}, {1, 0}, {1, 0}})
	results, err := idx.Query(ctx, []float32{1, 0}, 3, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range results {
		if c.Index != i {
			t.Errorf("tie-break: position %d has index %d, want %d", i, c.Index, i)
		}
	}
}

func TestMemoryIndex_NoDuplicateIndices(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	ctx := context.Background()
	_ = idx.Build(ctx, [][]float32{{1, 0}, {0.8, 0.6}, {0.6, 0.8}})
	results, err := idx.Query(ctx, []float32{1, 0}, 10, -1)
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[int]bool)
	for _, c := range results {
		if seen[c.Index] {
			t.Fatalf("duplicate index %d", c.Index)
		}
		seen[c.Index] = true
	}
}

func TestMemoryIndex_EmptyIndex(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	results, err := idx.Query(context.Background(), []float32{1, 0}, 5, 0.2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty result, got %d", len(results))
	}
}

func TestMemoryIndex_RejectsBadTopK(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	for _, k := range []int{0, -1} {
		if _, err := idx.Query(context.Background(), []float32{1, 0}, k, 0.2); err == nil {
			t.Errorf("topK=%d should be rejected", k)
		}
	}
}

func TestMemoryIndex_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.vec")
	idx, _ := NewMemoryIndex(2)
	ctx := context.Background()
	_ = idx.Build(ctx, [][]float32{{1, 0}, {0, 1}})
	if err := idx.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, _ := NewMemoryIndex(2)
	if err := loaded.Load(path); err != nil {
		t.Fatal(err)
	}
	if loaded.Size() != 2 {
		t.Fatalf("loaded Size=%d, want 2", loaded.Size())
	}
	results, err := loaded.Query(ctx, []float32{0, 1}, 1, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Index != 1 {
		t.Errorf("loaded query results=%v", results)
	}

	// Dimension mismatch must be rejected.
	wrong, _ := NewMemoryIndex(3)
	if err := wrong.Load(path); err == nil {
		t.Error("expected dimension mismatch error")
	}
}

func TestMemoryIndex_LoadMissingFile(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	if err := idx.Load(filepath.Join(t.TempDir(), "nope.vec")); err != nil {
		t.Fatalf("missing snapshot should not be an error: %v", err)
	}
	if idx.Size() != 0 {
		t.Errorf("Size=%d, want 0", idx.Size())
	}
}

func TestCosine(t *testing.T) {
	if got := Cosine([]float32{1, 0}, []float32{1, 0}); math.Abs(got-1) > 1e-9 {
		t.Errorf("identical vectors: %v", got)
	}
	if got := Cosine([]float32{1, 0}, []float32{-1, 0}); math.Abs(got+1) > 1e-9 {
		t.Errorf("opposite vectors: %v", got)
	}
	if got := Cosine([]float32{1, 0}, []float32{0, 0}); got != 0 {
		t.Errorf("zero vector: %v", got)
	}
	if got := Cosine([]float32{1}, []float32{1, 0}); got != 0 {
		t.Errorf("length mismatch: %v", got)
	}
}
