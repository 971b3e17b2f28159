package config

import (
	"encoding/json"
	"fmt"
)

// legacyRAG is the version-1 flat "rag" block, before the naive_rag/rag_tool split.
// as_tool selected whether retrieval was injected automatically or exposed as a
// callable capability.
type legacyRAG struct {
	Enabled             bool     `json:"enabled"`
	AsTool              bool     `json:"as_tool"`
	ChunkSize           int      `json:"chunk_size"`
	ChunkOverlap        int      `json:"chunk_overlap"`
	TopK                int      `json:"top_k"`
	SimilarityThreshold *float64 `json:"similarity_threshold"`
}

// ParseContextConfig builds a per-request configuration from JSON user input
// merged onto the baseline defaults. Version ≤ 1 payloads carrying the legacy
// flat "rag" key are migrated to naive_rag/rag_tool; migration never runs when
// either new key is present.
func ParseContextConfig(data []byte) (*ContextConfig, error) {
	cfg := DefaultContextConfig()
	if len(data) == 0 {
		return cfg, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse context config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse context config: %w", err)
	}

	version := CurrentVersion
	if v, ok := raw["version"]; ok {
		if err := json.Unmarshal(v, &version); err != nil {
			return nil, fmt.Errorf("failed to parse context config version: %w", err)
		}
	} else if _, hasLegacy := raw["rag"]; hasLegacy {
		version = 1
	}

	if version <= 1 {
		if err := migrateLegacyRAG(raw, cfg); err != nil {
			return nil, err
		}
	}
	cfg.Version = CurrentVersion
	return cfg, nil
}

// migrateLegacyRAG maps the flat "rag" block onto naive_rag or rag_tool. It is a
// no-op when the payload already uses the new keys or has no "rag" block.
func migrateLegacyRAG(raw map[string]json.RawMessage, cfg *ContextConfig) error {
	if _, ok := raw["naive_rag"]; ok {
		return nil
	}
	if _, ok := raw["rag_tool"]; ok {
		return nil
	}
	legacyData, ok := raw["rag"]
	if !ok {
		return nil
	}
	var legacy legacyRAG
	if err := json.Unmarshal(legacyData, &legacy); err != nil {
		return fmt.Errorf("failed to parse legacy rag config: %w", err)
	}
	threshold := cfg.NaiveRAG.SimilarityThreshold
	if legacy.SimilarityThreshold != nil {
		threshold = *legacy.SimilarityThreshold
	}
	if legacy.AsTool {
		cfg.RAGTool.Enabled = legacy.Enabled
		if legacy.TopK > 0 {
			cfg.RAGTool.TopK = legacy.TopK
		}
		cfg.RAGTool.SimilarityThreshold = threshold
		return nil
	}
	cfg.NaiveRAG.Enabled = legacy.Enabled
	if legacy.ChunkSize > 0 {
		cfg.NaiveRAG.ChunkSize = legacy.ChunkSize
	}
	if legacy.ChunkOverlap > 0 {
		cfg.NaiveRAG.ChunkOverlap = legacy.ChunkOverlap
	}
	if legacy.TopK > 0 {
		cfg.NaiveRAG.TopK = legacy.TopK
	}
	cfg.NaiveRAG.SimilarityThreshold = threshold
	return nil
}
