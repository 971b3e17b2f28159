package search

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/hyperjump/bunmyaku/internal/embedding"
	"github.com/hyperjump/bunmyaku/internal/ingest"
	"github.com/hyperjump/bunmyaku/internal/models"
	"github.com/hyperjump/bunmyaku/internal/storage"
	"github.com/hyperjump/bunmyaku/internal/vector"
)

func newTestSearcher(t *testing.T, docs map[string]string) *Searcher {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "documents.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	index, err := vector.NewMemoryIndex(384)
	if err != nil {
		t.Fatal(err)
	}
	embedder := embedding.NewHashEmbedder(384)

	ing := ingest.NewIngestor(store, embedder, index, nil)
	ctx := context.Background()
	for filename, content := range docs {
		if _, err := ing.Ingest(ctx, &models.DocumentInput{Filename: filename, Content: content}); err != nil {
			t.Fatalf("ingest %s: %v", filename, err)
		}
	}
	return NewSearcher(store, embedder, index)
}

func TestSearchFindsRelevantDocument(t *testing.T) {
	s := newTestSearcher(t, map[string]string{
		"team.md":   "Riri is a software engineer. Riri works on the platform team.",
		"budget.md": "The quarterly budget increased by twelve percent this year.",
	})

	results, err := s.Search(context.Background(), "Who is Riri?", 5, 0.2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("no results above threshold")
	}
	if results[0].Source != "team.md" {
		t.Errorf("top result from %s, want team.md", results[0].Source)
	}
	if results[0].Similarity < 0.2 {
		t.Errorf("similarity %v below threshold", results[0].Similarity)
	}
}

func TestSearchRespectsTopK(t *testing.T) {
	s := newTestSearcher(t, map[string]string{
		"a.txt": "shared words appear here in every document",
		"b.txt": "shared words appear here in each document",
		"c.txt": "shared words appear here in all documents",
	})

	results, err := s.Search(context.Background(), "shared words appear", 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) > 2 {
		t.Errorf("got %d results, want <= 2", len(results))
	}
}

func TestSearchThresholdFiltersWeakHits(t *testing.T) {
	s := newTestSearcher(t, map[string]string{
		"noise.txt": "completely unrelated content about gardening tulips",
	})

	results, err := s.Search(context.Background(), "kubernetes deployment strategy", 5, 0.9)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("weak hits passed a 0.9 threshold: %v", results)
	}
}

func TestSearchEmptyQueryAndZeroTopK(t *testing.T) {
	s := newTestSearcher(t, map[string]string{"a.txt": "content"})

	results, err := s.Search(context.Background(), "", 5, 0)
	if err != nil || results != nil {
		t.Errorf("empty query: %v, %v", results, err)
	}
	results, err = s.Search(context.Background(), "query", 0, 0)
	if err != nil || results != nil {
		t.Errorf("topK=0: %v, %v", results, err)
	}
}

func TestSearchResultsOrderedBySimilarity(t *testing.T) {
	s := newTestSearcher(t, map[string]string{
		"close.txt": "alpha beta gamma delta epsilon",
		"far.txt":   "one two three four five six seven",
	})

	results, err := s.Search(context.Background(), "alpha beta gamma", 5, 0)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Similarity > results[i-1].Similarity {
			t.Errorf("results not sorted: %v then %v", results[i-1].Similarity, results[i].Similarity)
		}
	}
}

type failingEmbedder struct{ embedding.Embedder }

func (f *failingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("model unavailable")
}

func TestSearchEmbedFailureIsRetrievalError(t *testing.T) {
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "d.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	index, err := vector.NewMemoryIndex(8)
	if err != nil {
		t.Fatal(err)
	}

	s := NewSearcher(store, &failingEmbedder{}, index)
	_, err = s.Search(context.Background(), "query", 5, 0)
	var re *models.RetrievalError
	if !errors.As(err, &re) {
		t.Fatalf("expected RetrievalError, got %v", err)
	}
	if re.Op != "embed query" {
		t.Errorf("op = %q", re.Op)
	}
}
