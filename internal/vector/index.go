// Package vector provides the vector index for chunk embeddings and cosine
// similarity search.
package vector

import "context"

// Index stores chunk embeddings and supports nearest-neighbor search by cosine
// similarity. Implementations must allow concurrent readers during search and
// keep the critical section around mutations short.
type Index interface {
	Add(ctx context.Context, ids []string, vectors [][]float32) error
	Search(ctx context.Context, query []float32, k int) ([]*Result, error)
	Remove(ctx context.Context, ids []string) error
	Save(path string) error
	Load(path string) error
	Size() int
	Close() error
}

// Result is a single vector search hit. ID is the chunk ID.
type Result struct {
	ID    string
	Score float64 // cosine similarity, clamped to [0, 1]
}
