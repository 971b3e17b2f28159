package config

import (
	"github.com/hyperjump/bunmyaku/internal/models"
)

// CurrentVersion is the context configuration schema version. Version 1 used a
// flat "rag" key; version 2 splits it into "naive_rag" and "rag_tool".
const CurrentVersion = 2

// ContextConfig is the per-request configuration tree covering every technique
// module plus global model settings. It is immutable once passed into a pipeline
// run; a new instance is built per request from user input merged onto a preset.
type ContextConfig struct {
	Version          int     `json:"version,omitempty"`
	Model            string  `json:"model"`
	Temperature      float64 `json:"temperature"`
	MaxContextTokens int     `json:"max_context_tokens"`

	Memory       MemoryConfig       `json:"memory"`
	Caching      CachingConfig      `json:"caching"`
	NaiveRAG     NaiveRAGConfig     `json:"naive_rag"`
	RAGTool      RAGToolConfig      `json:"rag_tool"`
	HybridSearch HybridSearchConfig `json:"hybrid_search"`
	Reranking    RerankingConfig    `json:"reranking"`
	Compression  CompressionConfig  `json:"compression"`
}

// NaiveRAGConfig tunes automatic retrieval: context is retrieved and injected
// before the agent runs.
type NaiveRAGConfig struct {
	Enabled             bool    `json:"enabled"`
	ChunkSize           int     `json:"chunk_size"`
	ChunkOverlap        int     `json:"chunk_overlap"`
	TopK                int     `json:"top_k"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
}

// Validate checks the naive retrieval tunables.
func (c *NaiveRAGConfig) Validate() []models.FieldError {
	var fields []models.FieldError
	if c.ChunkSize <= 0 {
		fields = append(fields, models.FieldError{Field: "naive_rag.chunk_size", Reason: "must be positive"})
	}
	if c.ChunkOverlap < 0 {
		fields = append(fields, models.FieldError{Field: "naive_rag.chunk_overlap", Reason: "must not be negative"})
	} else if c.ChunkSize > 0 && c.ChunkOverlap >= c.ChunkSize {
		fields = append(fields, models.FieldError{Field: "naive_rag.chunk_overlap", Reason: "must be smaller than chunk_size"})
	}
	if c.TopK <= 0 {
		fields = append(fields, models.FieldError{Field: "naive_rag.top_k", Reason: "must be positive"})
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		fields = append(fields, models.FieldError{Field: "naive_rag.similarity_threshold", Reason: "must be in [0, 1]"})
	}
	return fields
}

// RAGToolConfig tunes on-demand retrieval: a search capability the agent may
// invoke zero or more times during its own reasoning.
type RAGToolConfig struct {
	Enabled             bool    `json:"enabled"`
	TopK                int     `json:"top_k"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
}

// Validate checks the on-demand retrieval tunables.
func (c *RAGToolConfig) Validate() []models.FieldError {
	var fields []models.FieldError
	if c.TopK <= 0 {
		fields = append(fields, models.FieldError{Field: "rag_tool.top_k", Reason: "must be positive"})
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		fields = append(fields, models.FieldError{Field: "rag_tool.similarity_threshold", Reason: "must be in [0, 1]"})
	}
	return fields
}

// CompressionConfig tunes the context compression stub.
type CompressionConfig struct {
	Enabled     bool    `json:"enabled"`
	TargetRatio float64 `json:"target_ratio"`
}

// Validate checks the compression tunables.
func (c *CompressionConfig) Validate() []models.FieldError {
	if c.TargetRatio <= 0 || c.TargetRatio > 1 {
		return []models.FieldError{{Field: "compression.target_ratio", Reason: "must be in (0, 1]"}}
	}
	return nil
}

// RerankingConfig tunes the reranking stub. Requires retrieval to be enabled.
type RerankingConfig struct {
	Enabled bool `json:"enabled"`
	TopN    int  `json:"top_n"`
}

// Validate checks the reranking tunables.
func (c *RerankingConfig) Validate() []models.FieldError {
	if c.TopN <= 0 {
		return []models.FieldError{{Field: "reranking.top_n", Reason: "must be positive"}}
	}
	return nil
}

// CachingConfig tunes the response caching stub.
type CachingConfig struct {
	Enabled    bool `json:"enabled"`
	MaxEntries int  `json:"max_entries"`
	TTLSeconds int  `json:"ttl_seconds"`
}

// Validate checks the caching tunables.
func (c *CachingConfig) Validate() []models.FieldError {
	var fields []models.FieldError
	if c.MaxEntries <= 0 {
		fields = append(fields, models.FieldError{Field: "caching.max_entries", Reason: "must be positive"})
	}
	if c.TTLSeconds < 0 {
		fields = append(fields, models.FieldError{Field: "caching.ttl_seconds", Reason: "must not be negative"})
	}
	return fields
}

// HybridSearchConfig tunes the hybrid search stub. Requires retrieval to be enabled.
type HybridSearchConfig struct {
	Enabled       bool    `json:"enabled"`
	KeywordWeight float64 `json:"keyword_weight"`
}

// Validate checks the hybrid search tunables.
func (c *HybridSearchConfig) Validate() []models.FieldError {
	if c.KeywordWeight < 0 || c.KeywordWeight > 1 {
		return []models.FieldError{{Field: "hybrid_search.keyword_weight", Reason: "must be in [0, 1]"}}
	}
	return nil
}

// MemoryConfig tunes the conversation memory stub.
type MemoryConfig struct {
	Enabled    bool `json:"enabled"`
	WindowSize int  `json:"window_size"`
}

// Validate checks the memory tunables.
func (c *MemoryConfig) Validate() []models.FieldError {
	if c.WindowSize <= 0 {
		return []models.FieldError{{Field: "memory.window_size", Reason: "must be positive"}}
	}
	return nil
}

// RetrievalEnabled reports whether either retrieval mode is on.
func (c *ContextConfig) RetrievalEnabled() bool {
	return c.NaiveRAG.Enabled || c.RAGTool.Enabled
}

// EnabledTechniques returns the names of the enabled techniques in pipeline order.
func (c *ContextConfig) EnabledTechniques() []string {
	var out []string
	for _, t := range []struct {
		name    string
		enabled bool
	}{
		{"memory", c.Memory.Enabled},
		{"caching", c.Caching.Enabled},
		{"naive_rag", c.NaiveRAG.Enabled},
		{"rag_tool", c.RAGTool.Enabled},
		{"hybrid_search", c.HybridSearch.Enabled},
		{"reranking", c.Reranking.Enabled},
		{"compression", c.Compression.Enabled},
	} {
		if t.enabled {
			out = append(out, t.name)
		}
	}
	return out
}

// Validate checks every tunable and cross-module dependency rule. It returns a
// *models.ConfigurationError carrying field-level reasons, or nil.
func (c *ContextConfig) Validate() error {
	var fields []models.FieldError

	if c.Model == "" {
		fields = append(fields, models.FieldError{Field: "model", Reason: "must not be empty"})
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		fields = append(fields, models.FieldError{Field: "temperature", Reason: "must be in [0, 2]"})
	}
	if c.MaxContextTokens <= 0 {
		fields = append(fields, models.FieldError{Field: "max_context_tokens", Reason: "must be positive"})
	}

	fields = append(fields, c.NaiveRAG.Validate()...)
	fields = append(fields, c.RAGTool.Validate()...)
	fields = append(fields, c.Compression.Validate()...)
	fields = append(fields, c.Reranking.Validate()...)
	fields = append(fields, c.Caching.Validate()...)
	fields = append(fields, c.HybridSearch.Validate()...)
	fields = append(fields, c.Memory.Validate()...)

	// Cross-module dependency rules apply only to enabled techniques.
	if c.Reranking.Enabled && !c.RetrievalEnabled() {
		fields = append(fields, models.FieldError{Field: "reranking.enabled", Reason: "requires naive_rag or rag_tool to be enabled"})
	}
	if c.HybridSearch.Enabled && !c.RetrievalEnabled() {
		fields = append(fields, models.FieldError{Field: "hybrid_search.enabled", Reason: "requires naive_rag or rag_tool to be enabled"})
	}

	if len(fields) > 0 {
		return &models.ConfigurationError{Fields: fields}
	}
	return nil
}
