package store

import (
	"errors"
	"fmt"
	"strings"

	"lexi/internal/profile"
)

// Sentinel errors for the persistence layer. Callers match with errors.Is.
var (
	// ErrNotFound means no profile record has ever been saved.
	ErrNotFound = errors.New("store: profile record not found")

	// ErrCorrupted means a stored record could not be decoded.
	ErrCorrupted = errors.New("store: stored record corrupted")

	// ErrConfig means the store was constructed with unusable settings.
	ErrConfig = errors.New("store: configuration error")
)

// ValidationError aborts a save that would persist an invalid profile. The
// record on disk is left unchanged.
type ValidationError struct {
	Fields []profile.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Error()
	}
	return "store: validation failed: " + strings.Join(parts, "; ")
}

// SaveError wraps a failed write with its cause.
type SaveError struct {
	Op    string
	Cause error
}

func (e *SaveError) Error() string { return fmt.Sprintf("store: %s failed: %v", e.Op, e.Cause) }
func (e *SaveError) Unwrap() error { return e.Cause }

// LoadError wraps a failed read with its cause.
type LoadError struct {
	Op    string
	Cause error
}

func (e *LoadError) Error() string { return fmt.Sprintf("store: %s failed: %v", e.Op, e.Cause) }
func (e *LoadError) Unwrap() error { return e.Cause }
