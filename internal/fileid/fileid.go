// Package fileid provides a deterministic document ID from a filename or path.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

const prefix = "doc:"

// DocID returns a stable document ID for the given filename or path.
// The same name always yields the same ID, so re-ingesting a document
// overwrites the previous version instead of duplicating it.
func DocID(name string) string {
	normalized := filepath.Clean(name)
	hash := sha256.Sum256([]byte(normalized))
	return prefix + hex.EncodeToString(hash[:])
}
