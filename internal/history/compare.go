package history

import (
	"fmt"
	"math"
	"strings"

	"github.com/hyperjump/bunmyaku/internal/models"
)

// deltaEpsilon guards percent-delta division. Baselines smaller than this are
// treated as zero and produce no delta.
const deltaEpsilon = 1e-9

// Compare builds a metric-by-metric comparison of the identified runs. At
// least two runs are required; the first is the baseline for percent deltas.
func (s *Store) Compare(ids []string) (*models.RunComparison, error) {
	if len(ids) < 2 {
		return nil, fmt.Errorf("comparison needs at least 2 runs, got %d", len(ids))
	}

	runs := make([]*models.RunRecord, len(ids))
	for i, id := range ids {
		r := s.Get(id)
		if r == nil {
			return nil, fmt.Errorf("run %q not found", id)
		}
		runs[i] = r
	}

	// Only metrics present in every selected run are comparable; runs with
	// different techniques enabled simply do not share per-module metrics.
	names := make(map[string]int)
	for _, r := range runs {
		for name := range r.Metrics {
			names[name]++
		}
	}

	cmp := &models.RunComparison{
		RunIDs:  ids,
		Metrics: make(map[string]*models.MetricComparison, len(names)),
	}
	for name, count := range names {
		if count != len(runs) {
			continue
		}
		values := make([]float64, len(runs))
		for i, r := range runs {
			values[i] = r.Metrics[name]
		}
		cmp.Metrics[name] = compareMetric(name, values)
	}
	return cmp, nil
}

func compareMetric(name string, values []float64) *models.MetricComparison {
	mc := &models.MetricComparison{
		Values:        values,
		LowerIsBetter: LowerIsBetter(name),
		DeltaPct:      make([]*float64, len(values)),
	}

	for i, v := range values {
		if better(v, values[mc.BestIndex], mc.LowerIsBetter) {
			mc.BestIndex = i
		}
		if better(values[mc.WorstIndex], v, mc.LowerIsBetter) {
			mc.WorstIndex = i
		}
		if i == 0 {
			zero := 0.0
			mc.DeltaPct[i] = &zero
			continue
		}
		if baseline := values[0]; math.Abs(baseline) >= deltaEpsilon {
			delta := (v - baseline) / baseline * 100
			mc.DeltaPct[i] = &delta
		}
	}
	return mc
}

func better(a, b float64, lowerIsBetter bool) bool {
	if lowerIsBetter {
		return a < b
	}
	return a > b
}

// LowerIsBetter classifies a metric by name: latencies, durations, and error
// rates improve downward, everything else upward.
func LowerIsBetter(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range []string{"_ms", "_time", "_latency", "_errors"} {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return strings.Contains(lower, "latency") || strings.Contains(lower, "hallucination")
}
