// Package search provides similarity search over the vector index with source
// attribution from storage.
package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/hyperjump/bunmyaku/internal/embedding"
	"github.com/hyperjump/bunmyaku/internal/models"
	"github.com/hyperjump/bunmyaku/internal/storage"
	"github.com/hyperjump/bunmyaku/internal/vector"
)

// Searcher runs cosine similarity search: embed the query, score all indexed
// vectors, keep the top-K at or above the threshold, and join chunk text and
// source attribution from storage.
type Searcher struct {
	store    storage.Store
	embedder embedding.Embedder
	index    vector.Index
	logger   *zap.Logger // optional
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(s *Searcher) { s.logger = l }
}

// NewSearcher creates a searcher with the given dependencies.
func NewSearcher(store storage.Store, embedder embedding.Embedder, index vector.Index, opts ...Option) *Searcher {
	s := &Searcher{store: store, embedder: embedder, index: index}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search returns at most topK retrieved documents with similarity at or above threshold,
// ranked by similarity with ties broken by insertion order (earlier-ingested
// first). Embedding or index failures surface as *models.RetrievalError so the
// caller can degrade to an empty result set.
func (s *Searcher) Search(ctx context.Context, query string, topK int, threshold float64) ([]*models.RetrievedDocument, error) {
	if topK <= 0 || query == "" {
		return nil, nil
	}

	queryEmbedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, &models.RetrievalError{Op: "embed query", Err: err}
	}

	hits, err := s.index.Search(ctx, queryEmbedding, topK)
	if err != nil {
		return nil, &models.RetrievalError{Op: "vector search", Err: err}
	}

	results := make([]*models.RetrievedDocument, 0, len(hits))
	for _, hit := range hits {
		if hit.Score < threshold {
			continue
		}
		chunk, err := s.store.GetChunk(ctx, hit.ID)
		if err != nil {
			// Index and store can briefly disagree during re-ingestion; skip the orphan.
			if s.logger != nil {
				s.logger.Debug("chunk missing for vector hit", zap.String("chunk_id", hit.ID))
			}
			continue
		}
		results = append(results, &models.RetrievedDocument{
			Text:       chunk.Content,
			Source:     chunk.Source,
			Similarity: hit.Score,
			Metadata:   chunk.Metadata,
		})
	}
	return results, nil
}
