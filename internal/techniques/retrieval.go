// Package techniques implements the technique modules the pipeline composes:
// both retrieval modes plus the not-yet-implemented enrichment stubs.
package techniques

import (
	"context"
	"fmt"
	"strings"

	"github.com/hyperjump/bunmyaku/internal/config"
	"github.com/hyperjump/bunmyaku/internal/models"
	"github.com/hyperjump/bunmyaku/internal/search"
)

// Searcher is the retrieval surface both modes wrap.
type Searcher interface {
	Search(ctx context.Context, query string, topK int, threshold float64) ([]*models.RetrievedDocument, error)
}

var _ Searcher = (*search.Searcher)(nil)

// metadataKeyRetrieved is where the naive retrieval module stashes its raw
// results so downstream modules (reranking, compression) can reach them.
const metadataKeyRetrieved = "retrieved_documents"

// NaiveRetrieval retrieves and injects context before the agent runs. It always
// incurs retrieval latency.
type NaiveRetrieval struct {
	searcher Searcher
	cfg      config.NaiveRAGConfig
	last     *models.ModuleMetrics
}

// NewNaiveRetrieval creates the automatic-mode retrieval module.
func NewNaiveRetrieval(searcher Searcher) *NaiveRetrieval {
	return &NaiveRetrieval{searcher: searcher}
}

// Name returns the module name.
func (m *NaiveRetrieval) Name() string { return "naive_rag" }

// Configure validates and stores the retrieval tunables.
func (m *NaiveRetrieval) Configure(cfg *config.ContextConfig) error {
	if fields := cfg.NaiveRAG.Validate(); len(fields) > 0 {
		return &models.ConfigurationError{Fields: fields}
	}
	m.cfg = cfg.NaiveRAG
	return nil
}

// Enabled reports whether automatic retrieval is on.
func (m *NaiveRetrieval) Enabled() bool { return m.cfg.Enabled }

// Process searches the index for the original query and prepends the top
// results as a labeled context block to the enriched message. All fallible
// work happens before any mutation, so a failure leaves the context untouched.
func (m *NaiveRetrieval) Process(ctx context.Context, pc *models.PipelineContext) error {
	m.last = &models.ModuleMetrics{TechniqueSpecific: emptyRetrievalMetrics()}

	results, err := m.searcher.Search(ctx, pc.OriginalQuery, m.cfg.TopK, m.cfg.SimilarityThreshold)
	if err != nil {
		// Degrade to an empty result set; the pipeline records the error.
		return err
	}
	m.last.TechniqueSpecific = retrievalMetrics(results)
	if len(results) == 0 {
		return nil
	}

	pc.Metadata[metadataKeyRetrieved] = results
	pc.EnrichedMessage = FormatContextBlock(results) + "\n\n" + pc.EnrichedMessage
	return nil
}

// Metrics returns the most recent execution's metrics.
func (m *NaiveRetrieval) Metrics() *models.ModuleMetrics { return m.last }

// FormatContextBlock renders retrieved documents as a labeled context block for
// injection ahead of the user message.
func FormatContextBlock(results []*models.RetrievedDocument) string {
	var b strings.Builder
	b.WriteString("Relevant context:\n")
	for i, r := range results {
		fmt.Fprintf(&b, "\n[%d] %s (similarity %.2f)\n%s\n", i+1, r.Source, r.Similarity, r.Text)
	}
	return b.String()
}

// retrievalMetrics builds the metric fields shared by both retrieval modes.
func retrievalMetrics(results []*models.RetrievedDocument) map[string]interface{} {
	sources := make([]string, 0, len(results))
	seen := make(map[string]bool)
	var sum float64
	for _, r := range results {
		sum += r.Similarity
		if !seen[r.Source] {
			seen[r.Source] = true
			sources = append(sources, r.Source)
		}
	}
	avg := 0.0
	if len(results) > 0 {
		avg = sum / float64(len(results))
	}
	return map[string]interface{}{
		"retrieved_docs": len(results),
		"sources":        sources,
		"avg_similarity": avg,
	}
}

func emptyRetrievalMetrics() map[string]interface{} {
	return map[string]interface{}{
		"retrieved_docs": 0,
		"sources":        []string{},
		"avg_similarity": 0.0,
	}
}
