package techniques

import "github.com/hyperjump/bunmyaku/internal/pipeline"

// NewModules returns a fresh set of technique modules in execution order.
// Modules hold per-request configuration, so callers must not share a set
// across concurrent runs.
func NewModules(searcher Searcher) []pipeline.Module {
	return []pipeline.Module{
		NewMemory(),
		NewCaching(),
		NewNaiveRetrieval(searcher),
		NewRAGTool(searcher),
		NewHybridSearch(),
		NewReranking(),
		NewCompression(),
	}
}
