package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type recordingSink struct {
	mu       sync.Mutex
	ingested []string
	deleted  []string
}

func (s *recordingSink) IngestFile(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ingested = append(s.ingested, path)
	return nil
}

func (s *recordingSink) DeleteByFilename(ctx context.Context, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, filename)
	return nil
}

func (s *recordingSink) ingestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ingested)
}

func (s *recordingSink) deleteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deleted)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestWatcherIngestsNewFile(t *testing.T) {
	dir := t.TempDir()
	sink := &recordingSink{}
	w := New([]string{dir}, []string{".txt"}, false, sink, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "note.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, 3*time.Second, func() bool { return sink.ingestCount() >= 1 }) {
		t.Fatal("file was never ingested")
	}
}

func TestWatcherFiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	sink := &recordingSink{}
	w := New([]string{dir}, []string{".md"}, false, sink, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "image.png"), []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "doc.md"), []byte("# hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, 3*time.Second, func() bool { return sink.ingestCount() >= 1 }) {
		t.Fatal("matching file was never ingested")
	}
	sink.mu.Lock()
	defer sink.mu.Unlock()
	for _, p := range sink.ingested {
		if filepath.Ext(p) != ".md" {
			t.Errorf("non-matching file ingested: %s", p)
		}
	}
}

func TestWatcherDebouncesBurstWrites(t *testing.T) {
	dir := t.TempDir()
	sink := &recordingSink{}
	w := New([]string{dir}, nil, false, sink, WithDebounce(150*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "draft.txt")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("rev"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	if !waitFor(t, 3*time.Second, func() bool { return sink.ingestCount() >= 1 }) {
		t.Fatal("file was never ingested")
	}
	// Allow any stragglers to fire before counting.
	time.Sleep(300 * time.Millisecond)
	if n := sink.ingestCount(); n > 2 {
		t.Errorf("burst of 5 writes produced %d ingests, want 1 or 2", n)
	}
}

func TestWatcherDeletePropagates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gone.txt")
	if err := os.WriteFile(path, []byte("bye"), 0o644); err != nil {
		t.Fatal(err)
	}

	sink := &recordingSink{}
	w := New([]string{dir}, []string{".txt"}, false, sink, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, 3*time.Second, func() bool { return sink.deleteCount() >= 1 }) {
		t.Fatal("delete never propagated")
	}
}

func TestSyncExisting(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "old.txt"), []byte("existing"), 0o644); err != nil {
		t.Fatal(err)
	}

	sink := &recordingSink{}
	w := New([]string{dir}, []string{".txt"}, false, sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	w.SyncExisting(ctx)
	if sink.ingestCount() != 1 {
		t.Errorf("SyncExisting ingested %d files, want 1", sink.ingestCount())
	}
}

func TestStartCreatesMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "not-yet")
	w := New([]string{root}, nil, false, &recordingSink{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	if _, err := os.Stat(root); err != nil {
		t.Errorf("root not created: %v", err)
	}
}
