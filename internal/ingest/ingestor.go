package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/hyperjump/bunmyaku/internal/extract"
	"github.com/hyperjump/bunmyaku/internal/fileid"
	"github.com/hyperjump/bunmyaku/internal/models"
	"github.com/hyperjump/bunmyaku/internal/storage"
	"github.com/hyperjump/bunmyaku/internal/vector"
)

// Embedder is the minimal embedding surface the ingestor needs.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Result reports the outcome of one ingestion.
type Result struct {
	DocumentID    string
	ChunksCreated int
}

// Ingestor loads documents, splits them into overlapping chunks, embeds the
// chunks, and writes them to storage and the vector index. Re-ingesting the
// same filename overwrites (delete-then-insert) rather than duplicating.
// Ingest and delete calls are serialized by a mutex so one document's
// delete-then-insert never interleaves with another write; searches proceed
// concurrently against the index.
type Ingestor struct {
	mu        sync.Mutex
	store     storage.Store
	embedder  Embedder
	index     vector.Index
	chunker   *Chunker
	extractor *extract.Extractor
	logger    *zap.Logger // optional; when set, logs debug events
}

// Option configures an Ingestor.
type Option func(*Ingestor)

// WithLogger sets a logger for debug output (file ingested, document deleted, etc.).
func WithLogger(l *zap.Logger) Option {
	return func(ing *Ingestor) { ing.logger = l }
}

// WithChunking overrides the default chunk size and overlap. Call
// ValidateChunking first when the values come from user input.
func WithChunking(size, overlap int) Option {
	return func(ing *Ingestor) { ing.chunker = NewChunker(size, overlap) }
}

// ValidateChunking rejects chunk window parameters that cannot produce
// progressing, bounded chunks. Returns *models.ConfigurationError with
// field-level reasons.
func ValidateChunking(size, overlap int) error {
	var fields []models.FieldError
	if size <= 0 {
		fields = append(fields, models.FieldError{Field: "chunk_size", Reason: "must be positive"})
	}
	if overlap < 0 {
		fields = append(fields, models.FieldError{Field: "chunk_overlap", Reason: "must not be negative"})
	}
	if size > 0 && overlap >= size {
		fields = append(fields, models.FieldError{Field: "chunk_overlap", Reason: "must be smaller than chunk_size"})
	}
	if len(fields) > 0 {
		return &models.ConfigurationError{Fields: fields}
	}
	return nil
}

// NewIngestor creates an ingestor with the given dependencies.
// extractor may be nil; when nil, IngestFile treats all files as plain text.
func NewIngestor(store storage.Store, embedder Embedder, index vector.Index, extractor *extract.Extractor, opts ...Option) *Ingestor {
	ing := &Ingestor{
		store:     store,
		embedder:  embedder,
		index:     index,
		chunker:   NewChunker(defaultChunkSize, defaultChunkOverlap),
		extractor: extractor,
	}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// Ingest processes one document: overwrite any previous version with the same
// filename, chunk, embed, and write chunks to storage and the vector index.
// Malformed input is rejected with *models.IngestionError and the index is left
// unchanged.
func (ing *Ingestor) Ingest(ctx context.Context, input *models.DocumentInput) (*Result, error) {
	if input.Filename == "" {
		return nil, &models.IngestionError{Filename: input.Filename, Err: fmt.Errorf("filename must not be empty")}
	}
	content := Preprocess(input.Content)
	if content == "" {
		return nil, &models.IngestionError{Filename: input.Filename, Err: fmt.Errorf("document has no text content")}
	}

	ing.mu.Lock()
	defer ing.mu.Unlock()

	docID := fileid.DocID(input.Filename)
	source := filepath.Base(input.Filename)

	chunks := ing.chunker.Chunk(docID, source, content)
	if len(chunks) == 0 {
		return nil, &models.IngestionError{Filename: input.Filename, Err: fmt.Errorf("chunking produced no chunks")}
	}
	for _, ch := range chunks {
		ch.Metadata = map[string]interface{}{
			"source":      source,
			"chunk_index": ch.ChunkIndex,
		}
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Content
	}
	embeddings, err := ing.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, &models.IngestionError{Filename: input.Filename, Err: fmt.Errorf("generate embeddings: %w", err)}
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	// Same filename replaces the previous version entirely.
	if err := ing.deleteByID(ctx, docID); err != nil {
		return nil, err
	}

	contentType := input.ContentType
	if contentType == "" {
		contentType = extract.ContentType(input.Filename)
	}
	doc := &models.Document{
		ID:          docID,
		Filename:    input.Filename,
		ContentType: contentType,
		Content:     content,
		Metadata:    input.Metadata,
	}
	if err := ing.store.CreateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}
	if err := ing.store.BatchCreateChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("failed to store chunks: %w", err)
	}

	chunkIDs := make([]string, len(chunks))
	for i, ch := range chunks {
		chunkIDs[i] = ch.ID
	}
	if err := ing.index.Add(ctx, chunkIDs, embeddings); err != nil {
		return nil, fmt.Errorf("failed to index vectors: %w", err)
	}

	if ing.logger != nil {
		ing.logger.Debug("document ingested",
			zap.String("filename", input.Filename),
			zap.String("doc_id", docID),
			zap.Int("chunks", len(chunks)),
		)
	}
	return &Result{DocumentID: docID, ChunksCreated: len(chunks)}, nil
}

const (
	metaKeySourcePath  = "source_path"
	metaKeySourceMtime = "source_mtime"
	metaKeySourceSize  = "source_size"
)

// IngestFile reads a file from path, extracts its text, and ingests it. The
// document identity derives from the absolute path so re-ingesting updates the
// same document. Skips work when the file is already ingested with the same
// mtime and size.
func (ing *Ingestor) IngestFile(ctx context.Context, path string, allowedExts []string) (*Result, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(absPath))
	if len(allowedExts) > 0 && !extensionAllowed(ext, allowedExts) {
		return nil, &models.IngestionError{Filename: absPath, Err: fmt.Errorf("extension %q not in allowed list", ext)}
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, &models.IngestionError{Filename: absPath, Err: fmt.Errorf("not a regular file")}
	}
	docID := fileid.DocID(absPath)
	if ing.unchanged(ctx, absPath, docID, info) {
		if ing.logger != nil {
			ing.logger.Debug("skipping unchanged file", zap.String("path", absPath))
		}
		return &Result{DocumentID: docID, ChunksCreated: 0}, nil
	}

	text, err := ing.extractContent(absPath)
	if err != nil {
		return nil, &models.IngestionError{Filename: absPath, Err: fmt.Errorf("extract content: %w", err)}
	}
	input := &models.DocumentInput{
		Filename:    absPath,
		ContentType: extract.ContentType(absPath),
		Content:     text,
		Metadata: map[string]interface{}{
			metaKeySourcePath: absPath,
			// Stored as strings: UnixNano exceeds JSON's float53 precision.
			metaKeySourceMtime: strconv.FormatInt(info.ModTime().UnixNano(), 10),
			metaKeySourceSize:  strconv.FormatInt(info.Size(), 10),
		},
	}
	return ing.Ingest(ctx, input)
}

// unchanged reports whether the file is already ingested with the same mtime and size.
func (ing *Ingestor) unchanged(ctx context.Context, absPath, docID string, info os.FileInfo) bool {
	doc, err := ing.store.GetDocument(ctx, docID)
	if err != nil || doc == nil || doc.Metadata == nil {
		return false
	}
	if doc.Metadata[metaKeySourcePath] != absPath {
		return false
	}
	return metadataInt64(doc.Metadata, metaKeySourceMtime) == info.ModTime().UnixNano() &&
		metadataInt64(doc.Metadata, metaKeySourceSize) == info.Size()
}

func metadataInt64(m map[string]interface{}, key string) int64 {
	switch n := m[key].(type) {
	case string:
		x, _ := strconv.ParseInt(n, 10, 64)
		return x
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

// IngestDirectory walks dir recursively and ingests each regular file whose
// extension is in allowedExts (empty allows all). Returns the number of files
// ingested and the first error encountered.
func (ing *Ingestor) IngestDirectory(ctx context.Context, dir string, allowedExts []string) (n int, err error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return 0, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("not a directory: %s", absDir)
	}
	err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if len(allowedExts) > 0 && !extensionAllowed(ext, allowedExts) {
			return nil
		}
		// Resolve symlinks so only regular files are ingested.
		finfo, statErr := os.Stat(path)
		if statErr != nil || !finfo.Mode().IsRegular() {
			return nil
		}
		if _, ingestErr := ing.IngestFile(ctx, path, allowedExts); ingestErr != nil {
			return ingestErr
		}
		n++
		return nil
	})
	return n, err
}

// DeleteDocument removes a document and its chunks from storage and the vector index.
func (ing *Ingestor) DeleteDocument(ctx context.Context, id string) error {
	ing.mu.Lock()
	defer ing.mu.Unlock()
	if err := ing.deleteByID(ctx, id); err != nil {
		return err
	}
	if ing.logger != nil {
		ing.logger.Debug("document deleted", zap.String("id", id))
	}
	return nil
}

// DeleteByFilename removes the document ingested under filename, if any.
// Files ingested via IngestFile are stored under their absolute path, so a
// relative path is resolved first when it matches a stored document.
func (ing *Ingestor) DeleteByFilename(ctx context.Context, filename string) error {
	if abs, err := filepath.Abs(filename); err == nil && abs != filename {
		if doc, getErr := ing.store.GetDocument(ctx, fileid.DocID(abs)); getErr == nil && doc != nil {
			return ing.DeleteDocument(ctx, fileid.DocID(abs))
		}
	}
	return ing.DeleteDocument(ctx, fileid.DocID(filename))
}

func (ing *Ingestor) deleteByID(ctx context.Context, id string) error {
	chunks, err := ing.store.GetChunksByDocumentID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get chunks: %w", err)
	}
	if len(chunks) > 0 {
		chunkIDs := make([]string, len(chunks))
		for i, ch := range chunks {
			chunkIDs[i] = ch.ID
		}
		if err := ing.index.Remove(ctx, chunkIDs); err != nil {
			return fmt.Errorf("failed to delete from vector index: %w", err)
		}
	}
	if err := ing.store.DeleteChunksByDocumentID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	if err := ing.store.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

func (ing *Ingestor) extractContent(path string) (string, error) {
	if ing.extractor != nil {
		return ing.extractor.Extract(path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func extensionAllowed(ext string, allowed []string) bool {
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}
