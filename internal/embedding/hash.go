package embedding

import (
	"context"
	"math"
	"strings"
	"unicode"

	"github.com/hyperjump/bunmyaku/pkg/utils"
)

// HashEmbedder is a deterministic, dependency-free embedder: the vector is
// derived from the text hash, so the same text always gets the same embedding.
// It is the default provider and the one tests use. It carries no semantic
// signal beyond exact-text similarity.
type HashEmbedder struct {
	dimensions int
}

// NewHashEmbedder returns an embedder producing deterministic embeddings of the
// given dimensions (384 when non-positive).
func NewHashEmbedder(dimensions int) *HashEmbedder {
	if dimensions <= 0 {
		dimensions = 384
	}
	return &HashEmbedder{dimensions: dimensions}
}

// Embed returns a unit-normalized embedding derived from the text hash. Word
// hashes are mixed in so texts sharing vocabulary score closer than unrelated ones.
func (e *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	emb := make([]float32, e.dimensions)
	h := HashString(text)
	for i := range emb {
		emb[i] = float32(math.Sin(float64(h*(i+1))) * 0.05)
	}
	for _, word := range SplitWords(text) {
		word = foldWord(word)
		if word == "" {
			continue
		}
		wh := HashString(word)
		emb[wh%e.dimensions] += 1
		emb[(wh/7)%e.dimensions] += 0.5
	}
	utils.NormalizeL2(emb)
	return emb, nil
}

// foldWord lowercases and strips surrounding punctuation so "Riri?" and "riri"
// hash to the same slot.
func foldWord(w string) string {
	return strings.ToLower(strings.TrimFunc(w, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	}))
}

// EmbedBatch calls Embed for each text.
func (e *HashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		emb, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}

// Dimensions returns the embedding dimension.
func (e *HashEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op for HashEmbedder.
func (e *HashEmbedder) Close() error {
	return nil
}
