// Package cli provides output formatting for the bunmyaku command.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/hyperjump/bunmyaku/internal/models"
	"github.com/hyperjump/bunmyaku/pkg/utils"
)

// OutputFormat selects how results are rendered.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseFormat maps a flag value to an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch s {
	case "text", "":
		return OutputText, nil
	case "json":
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteRetrievedDocuments writes search results to w in the given format.
func WriteRetrievedDocuments(w io.Writer, results []*models.RetrievedDocument, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, results)
	}
	if len(results) == 0 {
		fmt.Fprintln(w, "No results.")
		return nil
	}
	fmt.Fprintf(w, "\nFound %d result(s)\n\n", len(results))
	for i, r := range results {
		fmt.Fprintf(w, "[%d] %s (similarity %.3f)\n", i+1, r.Source, r.Similarity)
		fmt.Fprintf(w, "    %s\n\n", snippet(r.Text, 200))
	}
	return nil
}

// WriteRun writes one run record to w in the given format.
func WriteRun(w io.Writer, run *models.RunRecord, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, run)
	}
	fmt.Fprintf(w, "run:        %s\n", run.ID)
	fmt.Fprintf(w, "time:       %s\n", run.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "model:      %s\n", run.Model)
	fmt.Fprintf(w, "techniques: %s\n", techniqueList(run.EnabledTechniques))
	fmt.Fprintf(w, "duration:   %.1fms\n", run.DurationMs)
	fmt.Fprintf(w, "query:      %s\n", run.Query)
	fmt.Fprintf(w, "response:   %s\n", run.Response)
	if len(run.Metrics) > 0 {
		fmt.Fprintln(w, "metrics:")
		for _, name := range sortedKeys(run.Metrics) {
			fmt.Fprintf(w, "  %-28s %.3f\n", name, run.Metrics[name])
		}
	}
	return nil
}

// WriteRunList writes a run history listing, newest first.
func WriteRunList(w io.Writer, runs []*models.RunRecord, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, run := range runs {
		fmt.Fprintf(w, "%s  %s  %-24s  %.0fms  %s\n",
			run.ID[:8],
			run.Timestamp.Format("2006-01-02 15:04"),
			techniqueList(run.EnabledTechniques),
			run.DurationMs,
			snippet(run.Query, 60))
	}
	return nil
}

// WriteComparison writes a metric-by-metric run comparison.
func WriteComparison(w io.Writer, cmp *models.RunComparison, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, cmp)
	}
	fmt.Fprintf(w, "comparing %d runs (baseline: %s)\n\n", len(cmp.RunIDs), short(cmp.RunIDs[0]))
	header := fmt.Sprintf("%-30s", "metric")
	for _, id := range cmp.RunIDs {
		header += fmt.Sprintf("  %12s", short(id))
	}
	fmt.Fprintln(w, header)

	for _, name := range sortedMetricNames(cmp.Metrics) {
		mc := cmp.Metrics[name]
		line := fmt.Sprintf("%-30s", name)
		for i, v := range mc.Values {
			cell := fmt.Sprintf("%.3f", v)
			if i > 0 && mc.DeltaPct[i] != nil {
				cell += fmt.Sprintf(" (%+.0f%%)", *mc.DeltaPct[i])
			}
			if i == mc.BestIndex {
				cell += "*"
			}
			line += fmt.Sprintf("  %12s", cell)
		}
		direction := "higher is better"
		if mc.LowerIsBetter {
			direction = "lower is better"
		}
		fmt.Fprintf(w, "%s   # %s\n", line, direction)
	}
	fmt.Fprintln(w, "\n* best value per metric")
	return nil
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func snippet(s string, max int) string {
	return utils.Truncate(strings.ReplaceAll(s, "\n", " "), max)
}

func techniqueList(techniques []string) string {
	if len(techniques) == 0 {
		return "baseline"
	}
	return strings.Join(techniques, ",")
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedMetricNames(m map[string]*models.MetricComparison) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
