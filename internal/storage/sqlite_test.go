package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperjump/bunmyaku/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "documents.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testDoc(id, filename string) *models.Document {
	now := time.Now()
	return &models.Document{
		ID:          id,
		Filename:    filename,
		ContentType: "text/plain",
		Content:     "content of " + filename,
		Metadata:    map[string]interface{}{"source_path": "/tmp/" + filename},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCreateAndGetDocument(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc := testDoc("doc:1", "a.txt")
	if err := s.CreateDocument(ctx, doc); err != nil {
		t.Fatalf("CreateDocument failed: %v", err)
	}

	got, err := s.GetDocument(ctx, "doc:1")
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if got == nil || got.Filename != "a.txt" || got.Content != doc.Content {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Metadata["source_path"] != "/tmp/a.txt" {
		t.Errorf("metadata lost: %v", got.Metadata)
	}

	byName, err := s.GetDocumentByFilename(ctx, "a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if byName == nil || byName.ID != "doc:1" {
		t.Errorf("lookup by filename: %+v", byName)
	}
}

func TestGetDocumentMissing(t *testing.T) {
	s := newTestStore(t)
	got, err := s.GetDocument(context.Background(), "doc:absent")
	if err != nil {
		t.Fatalf("missing document should not error: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestChunksLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateDocument(ctx, testDoc("doc:1", "a.txt")); err != nil {
		t.Fatal(err)
	}
	chunks := []*models.Chunk{
		{ID: "doc:1_c0", DocumentID: "doc:1", Source: "a.txt", Content: "first", ChunkIndex: 0, CreatedAt: time.Now()},
		{ID: "doc:1_c1", DocumentID: "doc:1", Source: "a.txt", Content: "second", ChunkIndex: 1, CreatedAt: time.Now()},
	}
	if err := s.BatchCreateChunks(ctx, chunks); err != nil {
		t.Fatalf("BatchCreateChunks failed: %v", err)
	}

	got, err := s.GetChunksByDocumentID(ctx, "doc:1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ChunkIndex != 0 || got[1].Content != "second" {
		t.Errorf("chunks mismatch: %+v", got)
	}

	one, err := s.GetChunk(ctx, "doc:1_c1")
	if err != nil {
		t.Fatal(err)
	}
	if one == nil || one.Content != "second" {
		t.Errorf("GetChunk: %+v", one)
	}

	if err := s.DeleteChunksByDocumentID(ctx, "doc:1"); err != nil {
		t.Fatal(err)
	}
	n, err := s.CountChunks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("count = %d after delete, want 0", n)
	}
}

func TestListDocumentsPagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		if err := s.CreateDocument(ctx, testDoc("doc:"+name, name)); err != nil {
			t.Fatal(err)
		}
	}

	page, err := s.ListDocuments(ctx, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 {
		t.Errorf("page size = %d, want 2", len(page))
	}
	total, err := s.CountDocuments(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 {
		t.Errorf("count = %d, want 3", total)
	}
}
