// Package extract turns source files into plain text plus a page-boundary
// table for downstream chunking. Failures are always explicit: an unreadable
// or unsupported file yields an ExtractionError, never silently empty text.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/windlabs/wind-engine/engine/domain"
)

// Result is extracted text with the character range of every page.
type Result struct {
	Text  string
	Pages []domain.PageBoundary
}

// FromFile dispatches on the file extension. Supported: .pdf, .txt, .md.
func FromFile(path string) (Result, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return FromPDF(path)
	case ".txt", ".md":
		return FromTextFile(path)
	default:
		return Result{}, domain.NewExtractionError(path, fmt.Errorf("unsupported format %q", filepath.Ext(path)))
	}
}

// FromTextFile reads a plain-text file as a single page spanning the whole
// content.
func FromTextFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, domain.NewExtractionError(path, err)
	}
	return FromText(string(data)), nil
}

// FromText wraps already-extracted text in a one-page Result.
func FromText(text string) Result {
	return Result{
		Text: text,
		Pages: []domain.PageBoundary{
			{PageNumber: 1, CharStart: 0, CharEnd: len(text)},
		},
	}
}
