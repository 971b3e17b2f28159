package techniques

import (
	"context"
	"fmt"

	"github.com/hyperjump/bunmyaku/internal/agent"
	"github.com/hyperjump/bunmyaku/internal/config"
	"github.com/hyperjump/bunmyaku/internal/models"
)

const searchCapabilityName = "search_knowledge_base"

// RAGTool exposes retrieval as an on-demand capability instead of injecting
// context up front. The agent decides per query whether to invoke it, so
// queries that need no grounding pay no retrieval latency.
type RAGTool struct {
	searcher Searcher
	cfg      config.RAGToolConfig
	last     *models.ModuleMetrics
}

// NewRAGTool creates the on-demand retrieval module.
func NewRAGTool(searcher Searcher) *RAGTool {
	return &RAGTool{searcher: searcher}
}

// Name returns the module name.
func (m *RAGTool) Name() string { return "rag_tool" }

// Configure validates and stores the tool-mode tunables.
func (m *RAGTool) Configure(cfg *config.ContextConfig) error {
	if fields := cfg.RAGTool.Validate(); len(fields) > 0 {
		return &models.ConfigurationError{Fields: fields}
	}
	m.cfg = cfg.RAGTool
	return nil
}

// Enabled reports whether tool-mode retrieval is on.
func (m *RAGTool) Enabled() bool { return m.cfg.Enabled }

// Process registers nothing itself; the capability is collected by the
// pipeline via Capabilities. The module only records that it ran.
func (m *RAGTool) Process(ctx context.Context, pc *models.PipelineContext) error {
	m.last = &models.ModuleMetrics{TechniqueSpecific: emptyRetrievalMetrics()}
	return nil
}

// Metrics returns the most recent execution's metrics.
func (m *RAGTool) Metrics() *models.ModuleMetrics { return m.last }

// Capabilities returns the single search capability. The description leans on
// the agent to call it proactively rather than answering from parametric
// knowledge alone.
func (m *RAGTool) Capabilities() []agent.Capability {
	return []agent.Capability{{
		Name: searchCapabilityName,
		Description: "Search the local knowledge base for passages relevant to a query. " +
			"ALWAYS use this tool before answering questions about people, projects, " +
			"documents, or facts that may be covered by ingested material. Prefer " +
			"searching over guessing.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The search query.",
				},
			},
			"required": []string{"query"},
		},
		Handler: m.handleSearch,
	}}
}

func (m *RAGTool) handleSearch(ctx context.Context, query string) (*agent.ToolResult, error) {
	results, err := m.searcher.Search(ctx, query, m.cfg.TopK, m.cfg.SimilarityThreshold)
	if err != nil {
		return nil, fmt.Errorf("tool search: %w", err)
	}
	if m.last != nil {
		m.last.TechniqueSpecific = retrievalMetrics(results)
	}
	if len(results) == 0 {
		return &agent.ToolResult{Text: "No relevant documents found."}, nil
	}

	docs := make([]map[string]interface{}, len(results))
	for i, r := range results {
		docs[i] = map[string]interface{}{
			"text":       r.Text,
			"source":     r.Source,
			"similarity": r.Similarity,
		}
	}
	return &agent.ToolResult{
		Text:      FormatContextBlock(results),
		Documents: docs,
	}, nil
}
