package ingest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/windlabs/wind-engine/engine/domain"
)

func TestChunk_ShortTextSingleChunk(t *testing.T) {
	c := NewChunker()
	text := "The pool is open from 6am to 10pm daily."
	chunks := c.Chunk("doc-1", text, nil)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	got := chunks[0]
	if got.Content != text {
		t.Errorf("content mismatch: %q", got.Content)
	}
	if got.Index != 0 {
		t.Errorf("expected index 0, got %d", got.Index)
	}
	if got.StartChar != 0 || got.EndChar != len(text) {
		t.Errorf("expected span [0,%d), got [%d,%d)", len(text), got.StartChar, got.EndChar)
	}
	if got.PageNumber != 1 {
		t.Errorf("expected page 1, got %d", got.PageNumber)
	}
}

func TestChunk_EmptyText(t *testing.T) {
	c := NewChunker()
	if chunks := c.Chunk("doc-1", "", nil); len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %d", len(chunks))
	}
	if chunks := c.Chunk("doc-1", "   \n\t  ", nil); len(chunks) != 0 {
		t.Fatalf("expected no chunks for whitespace, got %d", len(chunks))
	}
}

func TestChunk_SplitsWithOverlap(t *testing.T) {
	c := Chunker{ChunkSize: 50, Overlap: 20} // 2 overlap tokens

	words := make([]string, 30)
	for i := range words {
		words[i] = fmt.Sprintf("word%02d", i)
	}
	text := strings.Join(words, " ")
	chunks := c.Chunk("doc-1", text, nil)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i, ch := range chunks {
		if ch.Index != i {
			t.Errorf("chunk %d has index %d", i, ch.Index)
		}
		if i == 0 {
			continue
		}
		// Each chunk after the first starts with the previous chunk's two
		// trailing tokens.
		prev := strings.Fields(chunks[i-1].Content)
		carried := strings.Join(prev[len(prev)-2:], " ")
		if !strings.HasPrefix(ch.Content, carried) {
			t.Errorf("chunk %d does not carry overlap %q: %q", i, carried, ch.Content)
		}
	}

	// Every token of the source appears in at least one chunk.
	joined := strings.Join(chunkContents(chunks), " ")
	for _, w := range words {
		if !strings.Contains(joined, w) {
			t.Errorf("token %q missing from chunks", w)
		}
	}
}

func TestChunk_SpanLocatesContent(t *testing.T) {
	c := Chunker{ChunkSize: 50, Overlap: 20}

	words := make([]string, 30)
	for i := range words {
		words[i] = fmt.Sprintf("word%02d", i)
	}
	text := strings.Join(words, " ")

	for _, ch := range c.Chunk("doc-1", text, nil) {
		if ch.StartChar < 0 {
			t.Fatalf("chunk %d has negative start", ch.Index)
		}
		if got := text[ch.StartChar:ch.EndChar]; got != ch.Content {
			t.Errorf("span [%d,%d) yields %q, want %q", ch.StartChar, ch.EndChar, got, ch.Content)
		}
	}
}

func TestChunk_RepeatedContentUsesFirstOccurrence(t *testing.T) {
	// With no overlap and a 12-char threshold, "one two one" closes as the
	// first chunk and the final "two" chunk resolves to the earliest "two".
	c := Chunker{ChunkSize: 12, Overlap: 0}
	text := "one two one two"
	chunks := c.Chunk("doc-1", text, nil)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[1].Content != "two" {
		t.Fatalf("unexpected second chunk: %q", chunks[1].Content)
	}
	if chunks[1].StartChar != 4 {
		t.Errorf("expected first-occurrence start 4, got %d", chunks[1].StartChar)
	}
}

func TestChunk_PageResolution(t *testing.T) {
	pages := []domain.PageBoundary{
		{PageNumber: 1, CharStart: 0, CharEnd: 10},
		{PageNumber: 2, CharStart: 11, CharEnd: 40},
	}

	tests := []struct {
		name  string
		start int
		want  int
	}{
		{"first page", 0, 1},
		{"boundary end inclusive", 10, 1},
		{"second page", 15, 2},
		{"outside all ranges", 99, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolvePage(tt.start, pages); got != tt.want {
				t.Errorf("resolvePage(%d) = %d, want %d", tt.start, got, tt.want)
			}
		})
	}

	if got := resolvePage(5, nil); got != 1 {
		t.Errorf("expected default page 1 with no boundaries, got %d", got)
	}
}

func chunkContents(chunks []domain.Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Content
	}
	return out
}
