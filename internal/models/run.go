package models

import (
	"strings"
	"time"
)

// RunRecord is one completed query execution. Created once by the run history
// store and never mutated afterwards; eligible for pruning once it falls outside
// the retained window.
type RunRecord struct {
	ID                string             `json:"id"`
	Query             string             `json:"query"`
	Response          string             `json:"response"`
	Config            interface{}        `json:"config"`
	Metrics           map[string]float64 `json:"metrics"`
	EnabledTechniques []string           `json:"enabled_techniques"`
	Model             string             `json:"model"`
	DurationMs        float64            `json:"duration_ms"`
	Timestamp         time.Time          `json:"timestamp"`
}

// RunFilter selects run records. Zero-value fields match everything.
type RunFilter struct {
	TextContains string
	Technique    string
	Model        string
	From         time.Time
	To           time.Time
}

// Matches reports whether the record satisfies every set filter field.
func (f *RunFilter) Matches(r *RunRecord) bool {
	if f.TextContains != "" && !containsFold(r.Query, f.TextContains) && !containsFold(r.Response, f.TextContains) {
		return false
	}
	if f.Technique != "" {
		found := false
		for _, t := range r.EnabledTechniques {
			if t == f.Technique {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Model != "" && r.Model != f.Model {
		return false
	}
	if !f.From.IsZero() && r.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && r.Timestamp.After(f.To) {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// MetricComparison holds the per-run values of one metric across selected runs.
// DeltaPct is the percent delta of each run relative to the first selected run;
// a nil entry means the delta was skipped because the baseline is ~0 (avoids
// divide-by-zero artifacts and keeps the struct JSON-encodable).
type MetricComparison struct {
	Values        []float64  `json:"values"`
	BestIndex     int        `json:"best_index"`
	WorstIndex    int        `json:"worst_index"`
	LowerIsBetter bool       `json:"lower_is_better"`
	DeltaPct      []*float64 `json:"delta_pct"`
}

// RunComparison is derived on demand from selected run records; never persisted.
type RunComparison struct {
	RunIDs  []string                     `json:"run_ids"`
	Metrics map[string]*MetricComparison `json:"metrics"`
}
