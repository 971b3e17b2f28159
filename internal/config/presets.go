package config

import "fmt"

// Preset names. Each preset is a fully-populated ContextConfig; callers merge
// user input on top of a preset (or the baseline) per request.
const (
	PresetBaseline    = "baseline"
	PresetBasicRAG    = "basic_rag"
	PresetAdvancedRAG = "advanced_rag"
	PresetFullStack   = "full_stack"
)

// DefaultContextConfig returns the baseline configuration: every technique
// disabled, every tunable at its default so enabling a technique never requires
// filling in its sub-config first.
func DefaultContextConfig() *ContextConfig {
	return &ContextConfig{
		Version:          CurrentVersion,
		Model:            "llama3.2",
		Temperature:      0.7,
		MaxContextTokens: 4096,
		Memory:           MemoryConfig{WindowSize: 10},
		Caching:          CachingConfig{MaxEntries: 100, TTLSeconds: 300},
		NaiveRAG: NaiveRAGConfig{
			ChunkSize:    512,
			ChunkOverlap: 50,
			TopK:         5,
			// Permissive by default: favor recall and let the consumer filter.
			SimilarityThreshold: 0.2,
		},
		RAGTool:      RAGToolConfig{TopK: 5, SimilarityThreshold: 0.2},
		HybridSearch: HybridSearchConfig{KeywordWeight: 0.3},
		Reranking:    RerankingConfig{TopN: 3},
		Compression:  CompressionConfig{TargetRatio: 0.5},
	}
}

// Preset returns a copy of the named preset configuration.
func Preset(name string) (*ContextConfig, error) {
	cfg := DefaultContextConfig()
	switch name {
	case PresetBaseline:
		// all techniques disabled
	case PresetBasicRAG:
		cfg.NaiveRAG.Enabled = true
	case PresetAdvancedRAG:
		cfg.NaiveRAG.Enabled = true
		cfg.Reranking.Enabled = true
		cfg.Compression.Enabled = true
	case PresetFullStack:
		cfg.Memory.Enabled = true
		cfg.Caching.Enabled = true
		cfg.NaiveRAG.Enabled = true
		cfg.RAGTool.Enabled = true
		cfg.HybridSearch.Enabled = true
		cfg.Reranking.Enabled = true
		cfg.Compression.Enabled = true
	default:
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	return cfg, nil
}

// PresetNames returns all preset names.
func PresetNames() []string {
	return []string{PresetBaseline, PresetBasicRAG, PresetAdvancedRAG, PresetFullStack}
}
