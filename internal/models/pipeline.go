package models

// PipelineContext is the per-request mutable value threaded through technique modules.
// It is created at request start, owned exclusively by one pipeline invocation, and
// discarded after the agent call returns.
type PipelineContext struct {
	OriginalQuery   string                 `json:"original_query"`
	EnrichedMessage string                 `json:"enriched_message"`
	Metadata        map[string]interface{} `json:"metadata"`
	ModuleMetrics   []*ModuleMetrics       `json:"module_metrics"`
}

// NewPipelineContext creates a context for the given query. The enriched message
// starts as the query itself so it is never empty, even with zero modules enabled.
func NewPipelineContext(query string) *PipelineContext {
	return &PipelineContext{
		OriginalQuery:   query,
		EnrichedMessage: query,
		Metadata:        make(map[string]interface{}),
	}
}

// ModuleMetrics records one technique module execution. Append-only during a run.
type ModuleMetrics struct {
	ModuleName        string                 `json:"module_name"`
	ExecutionTimeMs   float64                `json:"execution_time_ms"`
	TechniqueSpecific map[string]interface{} `json:"technique_specific,omitempty"`
}

// PipelineMetrics is the aggregate of one pipeline run.
type PipelineMetrics struct {
	TotalTimeMs float64          `json:"total_time_ms"`
	Modules     []*ModuleMetrics `json:"modules"`
}

// Numeric flattens the pipeline metrics into a flat name → value map suitable for
// run comparison: total time, per-module execution times, and any numeric
// technique-specific values (prefixed with the module name).
func (p *PipelineMetrics) Numeric() map[string]float64 {
	out := map[string]float64{"total_time_ms": p.TotalTimeMs}
	for _, m := range p.Modules {
		out[m.ModuleName+"_time_ms"] = m.ExecutionTimeMs
		for k, v := range m.TechniqueSpecific {
			if f, ok := toFloat(v); ok {
				out[m.ModuleName+"_"+k] = f
			}
		}
	}
	return out
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
