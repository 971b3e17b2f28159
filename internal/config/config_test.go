package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesDefaultsAndExpandsPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
debug: true
storage:
  database_path: ./db/documents.db
embedding:
  provider: hash
watch:
  directories:
    - ./docs
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.Debug {
		t.Error("debug flag lost")
	}
	if want := filepath.Join(dir, "db/documents.db"); cfg.Storage.DatabasePath != want {
		t.Errorf("database_path = %q, want %q", cfg.Storage.DatabasePath, want)
	}
	if cfg.Embedding.Dimensions != 384 {
		t.Errorf("dimensions default = %d, want 384", cfg.Embedding.Dimensions)
	}
	if cfg.History.Retention != 8 {
		t.Errorf("history retention default = %d, want 8", cfg.History.Retention)
	}
	if len(cfg.Watch.Extensions) == 0 {
		t.Error("watch extensions default missing")
	}
	if !cfg.Watch.RecursiveOrDefault() {
		t.Error("recursive should default to true when directories are set")
	}
	if want := filepath.Join(dir, "docs"); cfg.Watch.Directories[0] != want {
		t.Errorf("watch dir = %q, want %q", cfg.Watch.Directories[0], want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := &Config{Debug: true}
	ApplyDefaults(cfg)
	cfg.Watch.Directories = []string{"/somewhere/docs"}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !loaded.Debug || len(loaded.Watch.Directories) != 1 {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
}

func TestRecursiveExplicitFalse(t *testing.T) {
	f := false
	cfg := &Config{Watch: WatchConfig{Directories: []string{"/x"}, Recursive: &f}}
	ApplyDefaults(cfg)
	if cfg.Watch.RecursiveOrDefault() {
		t.Error("explicit recursive: false overridden by defaults")
	}
}
