package models

import (
	"fmt"
	"strings"
)

// FieldError is a single invalid configuration field with a reason.
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Reason
}

// ConfigurationError indicates invalid or contradictory tunables. It is fatal to
// the request and surfaced to the caller before any module runs.
type ConfigurationError struct {
	Fields []FieldError
}

func (e *ConfigurationError) Error() string {
	if len(e.Fields) == 0 {
		return "configuration rejected"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return "configuration rejected: " + strings.Join(parts, "; ")
}

// RetrievalError indicates an embedding or index failure. Callers degrade to an
// empty result set rather than aborting the pipeline.
type RetrievalError struct {
	Op  string
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval %s: %v", e.Op, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// PersistenceError indicates a run-history write failure. The record is dropped
// rather than corrupting the log.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IngestionError indicates a malformed document. That document is rejected and
// the index is left otherwise unchanged.
type IngestionError struct {
	Filename string
	Err      error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingest %s: %v", e.Filename, e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }
