package techniques

import (
	"context"

	"github.com/hyperjump/bunmyaku/internal/config"
	"github.com/hyperjump/bunmyaku/internal/models"
)

// The enrichment modules below validate their configuration and participate in
// the pipeline, but their transformations are not implemented yet. Each one
// passes the context through unchanged and reports implemented=false in its
// metrics so run records make the gap visible.

// Memory maintains conversation history across turns.
type Memory struct {
	cfg  config.MemoryConfig
	last *models.ModuleMetrics
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Name() string { return "memory" }

func (m *Memory) Configure(cfg *config.ContextConfig) error {
	if fields := cfg.Memory.Validate(); len(fields) > 0 {
		return &models.ConfigurationError{Fields: fields}
	}
	m.cfg = cfg.Memory
	return nil
}

func (m *Memory) Enabled() bool { return m.cfg.Enabled }

func (m *Memory) Process(ctx context.Context, pc *models.PipelineContext) error {
	m.last = stubMetrics()
	return nil
}

func (m *Memory) Metrics() *models.ModuleMetrics { return m.last }

// Caching short-circuits repeated queries with stored responses.
type Caching struct {
	cfg  config.CachingConfig
	last *models.ModuleMetrics
}

func NewCaching() *Caching { return &Caching{} }

func (m *Caching) Name() string { return "caching" }

func (m *Caching) Configure(cfg *config.ContextConfig) error {
	if fields := cfg.Caching.Validate(); len(fields) > 0 {
		return &models.ConfigurationError{Fields: fields}
	}
	m.cfg = cfg.Caching
	return nil
}

func (m *Caching) Enabled() bool { return m.cfg.Enabled }

func (m *Caching) Process(ctx context.Context, pc *models.PipelineContext) error {
	m.last = stubMetrics()
	return nil
}

func (m *Caching) Metrics() *models.ModuleMetrics { return m.last }

// HybridSearch blends keyword and vector scores during retrieval.
type HybridSearch struct {
	cfg  config.HybridSearchConfig
	last *models.ModuleMetrics
}

func NewHybridSearch() *HybridSearch { return &HybridSearch{} }

func (m *HybridSearch) Name() string { return "hybrid_search" }

func (m *HybridSearch) Configure(cfg *config.ContextConfig) error {
	if fields := cfg.HybridSearch.Validate(); len(fields) > 0 {
		return &models.ConfigurationError{Fields: fields}
	}
	m.cfg = cfg.HybridSearch
	return nil
}

func (m *HybridSearch) Enabled() bool { return m.cfg.Enabled }

func (m *HybridSearch) Process(ctx context.Context, pc *models.PipelineContext) error {
	m.last = stubMetrics()
	return nil
}

func (m *HybridSearch) Metrics() *models.ModuleMetrics { return m.last }

// Reranking reorders retrieved documents with a second-stage scorer.
type Reranking struct {
	cfg  config.RerankingConfig
	last *models.ModuleMetrics
}

func NewReranking() *Reranking { return &Reranking{} }

func (m *Reranking) Name() string { return "reranking" }

func (m *Reranking) Configure(cfg *config.ContextConfig) error {
	if fields := cfg.Reranking.Validate(); len(fields) > 0 {
		return &models.ConfigurationError{Fields: fields}
	}
	m.cfg = cfg.Reranking
	return nil
}

func (m *Reranking) Enabled() bool { return m.cfg.Enabled }

func (m *Reranking) Process(ctx context.Context, pc *models.PipelineContext) error {
	m.last = stubMetrics()
	return nil
}

func (m *Reranking) Metrics() *models.ModuleMetrics { return m.last }

// Compression shrinks injected context toward a target ratio.
type Compression struct {
	cfg  config.CompressionConfig
	last *models.ModuleMetrics
}

func NewCompression() *Compression { return &Compression{} }

func (m *Compression) Name() string { return "compression" }

func (m *Compression) Configure(cfg *config.ContextConfig) error {
	if fields := cfg.Compression.Validate(); len(fields) > 0 {
		return &models.ConfigurationError{Fields: fields}
	}
	m.cfg = cfg.Compression
	return nil
}

func (m *Compression) Enabled() bool { return m.cfg.Enabled }

func (m *Compression) Process(ctx context.Context, pc *models.PipelineContext) error {
	m.last = stubMetrics()
	return nil
}

func (m *Compression) Metrics() *models.ModuleMetrics { return m.last }

func stubMetrics() *models.ModuleMetrics {
	return &models.ModuleMetrics{
		TechniqueSpecific: map[string]interface{}{"implemented": false},
	}
}
