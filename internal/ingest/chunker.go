// Package ingest provides document chunking and the ingestion pipeline.
package ingest

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hyperjump/bunmyaku/internal/models"
)

const (
	defaultChunkSize    = 512
	defaultChunkOverlap = 50
)

// Chunker splits text into overlapping character windows, preferring to cut at
// a sentence boundary when one exists within a tolerance window before the cut
// point. Every chunk is at most chunkSize characters and consecutive chunks
// overlap by at most chunkOverlap characters.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
	tolerance    int
}

// NewChunker creates a chunker with the given size and overlap (in characters).
// Callers validate user input via ValidateChunking; out-of-range values are
// clamped here so Split can never run with a degenerate window.
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize - 1
	}
	tolerance := chunkSize / 5
	if tolerance > 120 {
		tolerance = 120
	}
	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		tolerance:    tolerance,
	}
}

// Split returns the overlapping text windows for text.
func (c *Chunker) Split(text string) []string {
	runes := []rune(text)
	if len(strings.TrimSpace(text)) == 0 {
		return nil
	}
	var out []string
	start := 0
	for start < len(runes) {
		end := start + c.chunkSize
		if end >= len(runes) {
			if piece := strings.TrimSpace(string(runes[start:])); piece != "" {
				out = append(out, piece)
			}
			break
		}
		cut := c.sentenceCut(runes, start, end)
		if piece := strings.TrimSpace(string(runes[start:cut])); piece != "" {
			out = append(out, piece)
		}
		next := cut - c.chunkOverlap
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return out
}

// sentenceCut looks backward from end (at most tolerance characters) for a
// sentence boundary and returns the cut position; end when none is found.
func (c *Chunker) sentenceCut(runes []rune, start, end int) int {
	low := end - c.tolerance
	if low <= start {
		low = start + 1
	}
	for i := end; i > low; i-- {
		if isSentenceEnd(runes[i-1]) {
			return i
		}
	}
	return end
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '\n':
		return true
	}
	return false
}

// Chunk splits text into models.Chunk values for the given document.
func (c *Chunker) Chunk(docID, source, text string) []*models.Chunk {
	pieces := c.Split(text)
	chunks := make([]*models.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, &models.Chunk{
			ID:         fmt.Sprintf("%s_%s", docID, uuid.New().String()[:8]),
			DocumentID: docID,
			Source:     source,
			Content:    piece,
			ChunkIndex: i,
		})
	}
	return chunks
}
