// Package history persists run records for later inspection and comparison.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/hyperjump/bunmyaku/internal/models"
)

// DefaultRetention is how many runs the store keeps unless configured
// otherwise.
const DefaultRetention = 8

// Store keeps the most recent runs in a JSON file, oldest evicted first.
type Store struct {
	path      string
	retention int
	mu        sync.Mutex
	runs      []*models.RunRecord
	logger    *zap.Logger
}

// Option configures the store.
type Option func(*Store)

// WithLogger sets a custom logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithRetention overrides how many runs to keep. Values below 1 fall back to
// the default.
func WithRetention(n int) Option {
	return func(s *Store) {
		if n >= 1 {
			s.retention = n
		}
	}
}

// NewStore opens (or creates) a history file at path.
func NewStore(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:      path,
		retention: DefaultRetention,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Record appends a run and evicts the oldest beyond the retention limit. The
// updated log is written atomically; a write failure is returned as a
// PersistenceError with the in-memory state rolled back.
func (s *Store) Record(run *models.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.runs
	s.runs = append(append([]*models.RunRecord{}, s.runs...), run)
	if len(s.runs) > s.retention {
		s.runs = s.runs[len(s.runs)-s.retention:]
	}

	if err := s.flush(); err != nil {
		s.runs = prev
		return &models.PersistenceError{Op: "record run", Err: err}
	}
	return nil
}

// List returns the stored runs newest first, filtered if filter is non-nil.
func (s *Store) List(filter *models.RunFilter) []*models.RunRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.RunRecord, 0, len(s.runs))
	for i := len(s.runs) - 1; i >= 0; i-- {
		if filter == nil || filter.Matches(s.runs[i]) {
			out = append(out, s.runs[i])
		}
	}
	return out
}

// Get returns the run with the given ID, or nil if absent.
func (s *Store) Get(id string) *models.RunRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.runs {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// Len returns the number of stored runs.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.runs)
}

// Clear removes all stored runs.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.runs
	s.runs = nil
	if err := s.flush(); err != nil {
		s.runs = prev
		return &models.PersistenceError{Op: "clear history", Err: err}
	}
	return nil
}

// ExportAll serializes the stored runs, oldest first, as a JSON array.
func (s *Store) ExportAll() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.runs, "", "  ")
	if err != nil {
		return nil, &models.PersistenceError{Op: "export history", Err: err}
	}
	return data, nil
}

// ImportAll replaces the stored runs with the given JSON array, applying the
// retention limit to the imported set.
func (s *Store) ImportAll(data []byte) error {
	var runs []*models.RunRecord
	if err := json.Unmarshal(data, &runs); err != nil {
		return &models.PersistenceError{Op: "import history", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.runs
	if len(runs) > s.retention {
		runs = runs[len(runs)-s.retention:]
	}
	s.runs = runs
	if err := s.flush(); err != nil {
		s.runs = prev
		return &models.PersistenceError{Op: "import history", Err: err}
	}
	return nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return &models.PersistenceError{Op: "load history", Err: err}
	}
	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.runs); err != nil {
		// A corrupt log should not brick the application. Start fresh and
		// keep the bad file aside for inspection.
		s.logger.Warn("History file corrupt, starting fresh",
			zap.String("path", s.path),
			zap.Error(err))
		backup := s.path + ".corrupt"
		if renameErr := os.Rename(s.path, backup); renameErr != nil {
			s.logger.Warn("Failed to preserve corrupt history file", zap.Error(renameErr))
		}
		s.runs = nil
	}
	if len(s.runs) > s.retention {
		s.runs = s.runs[len(s.runs)-s.retention:]
	}
	return nil
}

// flush writes the log via a temp file and rename. Callers hold s.mu.
func (s *Store) flush() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create history directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(s.runs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}
