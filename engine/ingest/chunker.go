// Package ingest builds the document indexing pipeline: extracted text is
// split into overlapping page-aware chunks, embedded when a backend is
// available, and persisted as the retrieval corpus.
package ingest

import (
	"strings"

	"github.com/windlabs/wind-engine/engine/domain"
)

const (
	// DefaultChunkSize is the chunk size threshold in characters.
	DefaultChunkSize = 1000
	// DefaultOverlap is the chunk overlap in characters; it is carried
	// between chunks as overlap/10 trailing tokens.
	DefaultOverlap = 200
)

// Chunker splits text into whitespace-token chunks with a fixed character
// threshold and token overlap.
type Chunker struct {
	ChunkSize int
	Overlap   int
}

// NewChunker returns a Chunker with the default size and overlap.
func NewChunker() Chunker {
	return Chunker{ChunkSize: DefaultChunkSize, Overlap: DefaultOverlap}
}

// Chunk splits text into ordered chunks for the given document. Tokens are
// accumulated until adding the next would exceed the size threshold; the next
// chunk then starts with the closed chunk's trailing overlap tokens. The
// final partial accumulation always becomes the last chunk. Chunk spans are
// located at the content's first occurrence in text, so a phrase repeated
// verbatim earlier in the document resolves to the earlier position.
func (c Chunker) Chunk(documentID, text string, pages []domain.PageBoundary) []domain.Chunk {
	size := c.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	overlapTokens := c.Overlap / 10
	if overlapTokens < 0 {
		overlapTokens = 0
	}

	var chunks []domain.Chunk
	var current []string
	length := 0
	index := 0

	closeChunk := func() {
		content := strings.Join(current, " ")
		start := strings.Index(text, content)
		chunks = append(chunks, domain.Chunk{
			DocumentID: documentID,
			Index:      index,
			Content:    content,
			StartChar:  start,
			EndChar:    start + len(content),
			PageNumber: resolvePage(start, pages),
		})
		index++
	}

	for _, word := range strings.Fields(text) {
		if length+len(word)+1 > size && len(current) > 0 {
			closeChunk()

			var carry []string
			if len(current) > overlapTokens {
				carry = append(carry, current[len(current)-overlapTokens:]...)
			}
			current = append(carry, word)
			length = 0
			for _, w := range current {
				length += len(w) + 1
			}
		} else {
			current = append(current, word)
			length += len(word) + 1
		}
	}

	if len(current) > 0 {
		closeChunk()
	}

	return chunks
}

// resolvePage returns the first page whose character range contains start,
// or page 1 when no range matches.
func resolvePage(start int, pages []domain.PageBoundary) int {
	for _, p := range pages {
		if start >= p.CharStart && start <= p.CharEnd {
			return p.PageNumber
		}
	}
	return 1
}
