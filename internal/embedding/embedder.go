// Package embedding provides text embedding providers (hash, ONNX, Ollama) and caching.
package embedding

import (
	"context"
	"fmt"

	"github.com/hyperjump/bunmyaku/internal/config"
)

// Embedder produces fixed-length vector embeddings for text. Embeddings are
// unit-normalized so inner product equals cosine similarity.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// NewEmbedder creates the embedder named by cfg.Provider.
// Supported providers: "hash" (deterministic, default), "onnx" (local model,
// requires CGO), "ollama" (HTTP).
func NewEmbedder(cfg config.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case "hash", "":
		return NewHashEmbedder(cfg.Dimensions), nil
	case "onnx":
		return NewONNXEmbedder(cfg.ModelPath, cfg.Dimensions, cfg.MaxTokens, cfg.CacheSize)
	case "ollama":
		return NewOllamaEmbedder(cfg.OllamaURL, cfg.OllamaModel, cfg.Dimensions, cfg.CacheSize), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: hash, onnx, ollama)", cfg.Provider)
	}
}
