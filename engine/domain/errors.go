package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownDocument is returned when a requested document id does not exist.
var ErrUnknownDocument = errors.New("unknown document")

// ExtractionError reports a document whose source file could not be read or
// parsed. It is fatal to indexing that document and only that document.
type ExtractionError struct {
	Path    string
	Wrapped error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Path, e.Wrapped)
}

func (e *ExtractionError) Unwrap() error { return e.Wrapped }

// NewExtractionError wraps a failure for the given source path.
func NewExtractionError(path string, wrapped error) *ExtractionError {
	return &ExtractionError{Path: path, Wrapped: wrapped}
}
