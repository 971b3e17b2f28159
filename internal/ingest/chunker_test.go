package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/hyperjump/bunmyaku/internal/models"
)

func TestSplitShortTextSingleChunk(t *testing.T) {
	c := NewChunker(512, 50)
	pieces := c.Split("A short document.")
	if len(pieces) != 1 || pieces[0] != "A short document." {
		t.Errorf("got %v", pieces)
	}
}

func TestSplitEmptyText(t *testing.T) {
	c := NewChunker(512, 50)
	if got := c.Split("   \n  "); got != nil {
		t.Errorf("whitespace-only text produced chunks: %v", got)
	}
}

func TestSplitRespectsChunkSize(t *testing.T) {
	c := NewChunker(100, 20)
	text := strings.Repeat("word ", 200)
	for i, piece := range c.Split(text) {
		if n := len([]rune(piece)); n > 100 {
			t.Errorf("chunk %d has %d chars, want <= 100", i, n)
		}
	}
}

func TestSplitCoversAllText(t *testing.T) {
	c := NewChunker(80, 10)
	text := "First sentence here. Second sentence follows. Third one too. " +
		"Fourth keeps going. Fifth wraps it up. Sixth for good measure."
	pieces := c.Split(text)
	if len(pieces) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(pieces))
	}
	joined := strings.Join(pieces, " ")
	for _, sentence := range []string{"First sentence", "Sixth for good measure"} {
		if !strings.Contains(joined, sentence) {
			t.Errorf("text %q lost during chunking", sentence)
		}
	}
}

func TestSplitPrefersSentenceBoundary(t *testing.T) {
	c := NewChunker(50, 5)
	text := "This is the first sentence, fairly long. Short tail follows here and keeps going for a while longer."
	pieces := c.Split(text)
	if len(pieces) < 2 {
		t.Fatalf("expected multiple chunks, got %v", pieces)
	}
	if !strings.HasSuffix(pieces[0], ".") {
		t.Errorf("first chunk did not cut at sentence boundary: %q", pieces[0])
	}
}

func TestSplitMakesProgressWithLargeOverlap(t *testing.T) {
	// Overlap nearly equal to size must still terminate.
	c := NewChunker(10, 9)
	pieces := c.Split(strings.Repeat("a", 100))
	if len(pieces) == 0 {
		t.Fatal("no chunks produced")
	}
}

func TestSplitClampsDegenerateParameters(t *testing.T) {
	// Out-of-range values fall back to workable ones instead of panicking.
	text := strings.Repeat("word ", 50)
	for _, c := range []*Chunker{
		NewChunker(-5, 0),
		NewChunker(0, 0),
		NewChunker(10, 10),
		NewChunker(10, -3),
	} {
		if pieces := c.Split(text); len(pieces) == 0 {
			t.Errorf("chunker %+v produced no chunks", c)
		}
	}
}

func TestValidateChunking(t *testing.T) {
	if err := ValidateChunking(512, 50); err != nil {
		t.Errorf("valid parameters rejected: %v", err)
	}

	for _, tc := range []struct {
		size, overlap int
		field         string
	}{
		{-5, 0, "chunk_size"},
		{0, 0, "chunk_size"},
		{100, -1, "chunk_overlap"},
		{100, 100, "chunk_overlap"},
	} {
		err := ValidateChunking(tc.size, tc.overlap)
		var cfgErr *models.ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("ValidateChunking(%d, %d): got %v, want ConfigurationError", tc.size, tc.overlap, err)
		}
		if !strings.Contains(cfgErr.Error(), tc.field) {
			t.Errorf("ValidateChunking(%d, %d) = %q, want mention of %s", tc.size, tc.overlap, cfgErr.Error(), tc.field)
		}
	}
}

func TestChunkAssignsIdentity(t *testing.T) {
	c := NewChunker(512, 50)
	chunks := c.Chunk("doc:abc", "a.txt", "Hello chunked world.")
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks", len(chunks))
	}
	ch := chunks[0]
	if !strings.HasPrefix(ch.ID, "doc:abc_") {
		t.Errorf("chunk ID %q not derived from document ID", ch.ID)
	}
	if ch.DocumentID != "doc:abc" || ch.Source != "a.txt" || ch.ChunkIndex != 0 {
		t.Errorf("chunk fields: %+v", ch)
	}
}

func TestPreprocessCollapsesWhitespace(t *testing.T) {
	got := Preprocess("  hello   world\t again \n\nnext  line  ")
	if strings.Contains(got, "  ") {
		t.Errorf("double spaces survived: %q", got)
	}
	if !strings.Contains(got, "\n") {
		t.Error("newlines should survive as sentence hints")
	}
	if strings.HasPrefix(got, " ") || strings.HasSuffix(got, " ") {
		t.Errorf("not trimmed: %q", got)
	}
}
