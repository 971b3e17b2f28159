package config

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/hyperjump/bunmyaku/internal/models"
)

func TestDefaultContextConfigIsValid(t *testing.T) {
	if err := DefaultContextConfig().Validate(); err != nil {
		t.Errorf("defaults failed validation: %v", err)
	}
}

func TestAllPresetsAreValid(t *testing.T) {
	for _, name := range PresetNames() {
		cfg, err := Preset(name)
		if err != nil {
			t.Fatalf("Preset(%s) failed: %v", name, err)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
	if _, err := Preset("no_such_preset"); err == nil {
		t.Error("unknown preset accepted")
	}
}

func TestValidateCollectsAllFieldErrors(t *testing.T) {
	cfg := DefaultContextConfig()
	cfg.Model = ""
	cfg.Temperature = 3.0
	cfg.NaiveRAG.TopK = 0

	err := cfg.Validate()
	var ce *models.ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	got := make(map[string]bool)
	for _, f := range ce.Fields {
		got[f.Field] = true
	}
	for _, want := range []string{"model", "temperature", "naive_rag.top_k"} {
		if !got[want] {
			t.Errorf("missing field error for %s in %v", want, ce.Fields)
		}
	}
}

func TestValidateCrossModuleRules(t *testing.T) {
	cfg := DefaultContextConfig()
	cfg.Reranking.Enabled = true

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "reranking.enabled") {
		t.Errorf("reranking without retrieval accepted: %v", err)
	}

	cfg.NaiveRAG.Enabled = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("reranking with retrieval rejected: %v", err)
	}

	cfg2 := DefaultContextConfig()
	cfg2.HybridSearch.Enabled = true
	if err := cfg2.Validate(); err == nil {
		t.Error("hybrid search without retrieval accepted")
	}
	cfg2.RAGTool.Enabled = true
	if err := cfg2.Validate(); err != nil {
		t.Errorf("hybrid search with tool retrieval rejected: %v", err)
	}
}

func TestValidateChunkOverlapBound(t *testing.T) {
	cfg := DefaultContextConfig()
	cfg.NaiveRAG.ChunkOverlap = cfg.NaiveRAG.ChunkSize
	if err := cfg.Validate(); err == nil {
		t.Error("overlap equal to chunk size accepted")
	}
}

func TestEnabledTechniquesOrder(t *testing.T) {
	cfg, err := Preset(PresetFullStack)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"memory", "caching", "naive_rag", "rag_tool", "hybrid_search", "reranking", "compression"}
	if got := cfg.EnabledTechniques(); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if got := DefaultContextConfig().EnabledTechniques(); len(got) != 0 {
		t.Errorf("baseline enabled techniques = %v, want none", got)
	}
}

func TestParseContextConfigMergesOntoDefaults(t *testing.T) {
	cfg, err := ParseContextConfig([]byte(`{"naive_rag": {"enabled": true, "top_k": 10}}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !cfg.NaiveRAG.Enabled || cfg.NaiveRAG.TopK != 10 {
		t.Errorf("overrides not applied: %+v", cfg.NaiveRAG)
	}
	if cfg.NaiveRAG.ChunkSize != DefaultContextConfig().NaiveRAG.ChunkSize {
		t.Errorf("unset fields lost their defaults: %+v", cfg.NaiveRAG)
	}
	if cfg.Version != CurrentVersion {
		t.Errorf("version = %d, want %d", cfg.Version, CurrentVersion)
	}
}

func TestParseContextConfigEmptyInput(t *testing.T) {
	cfg, err := ParseContextConfig(nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("empty input produced invalid config: %v", err)
	}
}

func TestMigrateLegacyRAGToNaive(t *testing.T) {
	payload := `{"rag": {"enabled": true, "chunk_size": 256, "top_k": 7, "similarity_threshold": 0.5}}`
	cfg, err := ParseContextConfig([]byte(payload))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !cfg.NaiveRAG.Enabled {
		t.Error("legacy rag not migrated to naive_rag")
	}
	if cfg.NaiveRAG.ChunkSize != 256 || cfg.NaiveRAG.TopK != 7 || cfg.NaiveRAG.SimilarityThreshold != 0.5 {
		t.Errorf("legacy fields lost: %+v", cfg.NaiveRAG)
	}
	if cfg.RAGTool.Enabled {
		t.Error("rag_tool enabled by naive-mode migration")
	}
	if cfg.Version != CurrentVersion {
		t.Errorf("migrated version = %d", cfg.Version)
	}
}

func TestMigrateLegacyRAGAsTool(t *testing.T) {
	payload := `{"version": 1, "rag": {"enabled": true, "as_tool": true, "top_k": 3}}`
	cfg, err := ParseContextConfig([]byte(payload))
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.RAGTool.Enabled || cfg.RAGTool.TopK != 3 {
		t.Errorf("as_tool migration wrong: %+v", cfg.RAGTool)
	}
	if cfg.NaiveRAG.Enabled {
		t.Error("naive_rag enabled by tool-mode migration")
	}
}

func TestMigrationSkippedWhenNewKeysPresent(t *testing.T) {
	payload := `{"rag": {"enabled": true}, "naive_rag": {"enabled": false, "chunk_size": 512, "chunk_overlap": 50, "top_k": 5, "similarity_threshold": 0.2}}`
	cfg, err := ParseContextConfig([]byte(payload))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.NaiveRAG.Enabled {
		t.Error("migration overrode an explicit new-format key")
	}
}

func TestMigrationZeroThresholdPreserved(t *testing.T) {
	payload := `{"rag": {"enabled": true, "similarity_threshold": 0}}`
	cfg, err := ParseContextConfig([]byte(payload))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.NaiveRAG.SimilarityThreshold != 0 {
		t.Errorf("explicit zero threshold replaced with %v", cfg.NaiveRAG.SimilarityThreshold)
	}
}

func TestParseContextConfigRejectsBadJSON(t *testing.T) {
	if _, err := ParseContextConfig([]byte(`{broken`)); err == nil {
		t.Error("malformed JSON accepted")
	}
}
