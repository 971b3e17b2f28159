// Package models defines core data structures for documents, pipeline runs, and run history.
package models

import "time"

// Document represents an ingested source document with metadata.
type Document struct {
	ID          string                 `json:"id" db:"id"`
	Filename    string                 `json:"filename" db:"filename"`
	ContentType string                 `json:"content_type" db:"content_type"`
	Content     string                 `json:"content" db:"content"`
	Metadata    map[string]interface{} `json:"metadata" db:"metadata"`
	CreatedAt   time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at" db:"updated_at"`
}

// Chunk is a bounded span of a document's text, the unit of embedding and retrieval.
// Immutable once stored.
type Chunk struct {
	ID         string                 `json:"id" db:"id"`
	DocumentID string                 `json:"document_id" db:"document_id"`
	Source     string                 `json:"source" db:"source"`
	Content    string                 `json:"content" db:"content"`
	ChunkIndex int                    `json:"chunk_index" db:"chunk_index"`
	Embedding  []float32              `json:"-" db:"-"`
	Metadata   map[string]interface{} `json:"metadata" db:"metadata"`
	CreatedAt  time.Time              `json:"created_at" db:"created_at"`
}

// DocumentInput is the input for ingesting a document (the document store boundary).
type DocumentInput struct {
	Filename    string                 `json:"filename"`
	ContentType string                 `json:"content_type,omitempty"`
	Content     string                 `json:"content"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// RetrievedDocument is a single similarity search hit with source attribution.
type RetrievedDocument struct {
	Text       string                 `json:"text"`
	Source     string                 `json:"source"`
	Similarity float64                `json:"similarity"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}
