package vector

import (
	"context"
	"math"
	"path/filepath"
	"testing"
)

func TestAddAndSearch(t *testing.T) {
	idx, err := NewMemoryIndex(3)
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	ctx := context.Background()
	err = idx.Add(ctx,
		[]string{"a", "b", "c"},
		[][]float32{
			{1, 0, 0},
			{0, 1, 0},
			{0.9, 0.1, 0},
		})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if idx.Size() != 3 {
		t.Fatalf("size = %d, want 3", idx.Size())
	}

	hits, err := idx.Search(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].ID != "a" {
		t.Errorf("best hit = %s, want a", hits[0].ID)
	}
	if hits[1].ID != "c" {
		t.Errorf("second hit = %s, want c", hits[1].ID)
	}
	if hits[0].Score < hits[1].Score {
		t.Error("hits not sorted by score")
	}
}

func TestSearchEqualScoresKeepInsertionOrder(t *testing.T) {
	idx, err := NewMemoryIndex(2)
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	ctx := context.Background()
	v := []float32{1, 0}
	if err := idx.Add(ctx, []string{"first", "second", "third"}, [][]float32{v, v, v}); err != nil {
		t.Fatal(err)
	}

	hits, err := idx.Search(ctx, v, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"first", "second", "third"}
	for i, h := range hits {
		if h.ID != want[i] {
			t.Errorf("hit %d = %s, want %s (insertion order on ties)", i, h.ID, want[i])
		}
	}
}

func TestSearchClampsNegativeSimilarityToZero(t *testing.T) {
	idx, err := NewMemoryIndex(2)
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	ctx := context.Background()
	if err := idx.Add(ctx, []string{"opposite"}, [][]float32{{-1, 0}}); err != nil {
		t.Fatal(err)
	}

	hits, err := idx.Search(ctx, []float32{1, 0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Score != 0 {
		t.Errorf("anti-correlated vector score = %v, want 0", hits)
	}
}

func TestAddRejectsDimensionMismatch(t *testing.T) {
	idx, err := NewMemoryIndex(4)
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	err = idx.Add(context.Background(), []string{"x"}, [][]float32{{1, 2}})
	if err == nil {
		t.Error("dimension mismatch accepted")
	}
	if idx.Size() != 0 {
		t.Errorf("failed add mutated the index: size = %d", idx.Size())
	}
}

func TestRemove(t *testing.T) {
	idx, err := NewMemoryIndex(2)
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	ctx := context.Background()
	if err := idx.Add(ctx, []string{"a", "b"}, [][]float32{{1, 0}, {0, 1}}); err != nil {
		t.Fatal(err)
	}
	if err := idx.Remove(ctx, []string{"a", "missing"}); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if idx.Size() != 1 {
		t.Fatalf("size = %d after remove, want 1", idx.Size())
	}

	hits, err := idx.Search(ctx, []float32{1, 0}, 5)
	if err != nil {
		t.Fatal(err)
	}
	for _, h := range hits {
		if h.ID == "a" {
			t.Error("removed entry still searchable")
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.bin")

	idx, err := NewMemoryIndex(3)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := idx.Add(ctx, []string{"a", "b"}, [][]float32{{1, 0, 0}, {0, 1, 0}}); err != nil {
		t.Fatal(err)
	}
	if err := idx.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	idx.Close()

	loaded, err := NewMemoryIndex(3)
	if err != nil {
		t.Fatal(err)
	}
	defer loaded.Close()
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Size() != 2 {
		t.Fatalf("loaded size = %d, want 2", loaded.Size())
	}

	hits, err := loaded.Search(ctx, []float32{1, 0, 0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].ID != "a" {
		t.Errorf("loaded index search = %v", hits)
	}
}

func TestLoadMissingFileIsNoop(t *testing.T) {
	idx, err := NewMemoryIndex(2)
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	if err := idx.Load(filepath.Join(t.TempDir(), "absent.bin")); err != nil {
		t.Errorf("Load of missing file should be a no-op: %v", err)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CosineSimilarity(tt.a, tt.b); math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestL2Norm(t *testing.T) {
	if got := L2Norm([]float32{3, 4}); math.Abs(got-5) > 1e-6 {
		t.Errorf("got %v, want 5", got)
	}
}
