package ingest

import (
	"strings"
	"unicode"
)

// Preprocess normalizes text for ingestion (trim, collapse whitespace).
// Newlines survive as sentence-boundary hints for the chunker.
func Preprocess(text string) string {
	text = strings.TrimSpace(text)
	var b strings.Builder
	wasSpace := false
	for _, r := range text {
		if r == '\n' {
			b.WriteRune('\n')
			wasSpace = true
		} else if unicode.IsSpace(r) {
			if !wasSpace {
				b.WriteRune(' ')
				wasSpace = true
			}
		} else {
			b.WriteRune(r)
			wasSpace = false
		}
	}
	return b.String()
}
