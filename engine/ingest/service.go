package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/windlabs/wind-engine/engine/domain"
	"github.com/windlabs/wind-engine/engine/embed"
	"github.com/windlabs/wind-engine/engine/extract"
	"github.com/windlabs/wind-engine/pkg/fn"
)

// indexJob is the value threaded through the indexing pipeline stages.
type indexJob struct {
	doc    domain.Document
	text   string
	pages  []domain.PageBoundary
	chunks []domain.Chunk
}

// Indexer runs the full indexing pipeline for one document: load, extract,
// chunk, embed, store. Each invocation is independent; a failure indexes
// nothing for that document and leaves every other document untouched.
type Indexer struct {
	store    domain.DocumentStore
	provider embed.Provider
	chunker  Chunker
	log      *slog.Logger
}

// NewIndexer creates an Indexer over the given store and embedding provider.
func NewIndexer(store domain.DocumentStore, provider embed.Provider, log *slog.Logger) *Indexer {
	if log == nil {
		log = slog.Default()
	}
	return &Indexer{
		store:    store,
		provider: provider,
		chunker:  NewChunker(),
		log:      log,
	}
}

// Process indexes the document with the given id. Unknown ids surface
// domain.ErrUnknownDocument; unreadable sources surface a
// domain.ExtractionError. Embedding absence is not an error: chunks are
// stored without vectors and retrieval falls back to text matching.
func (ix *Indexer) Process(ctx context.Context, documentID string) error {
	pipeline := fn.Then(
		fn.TracedStage("index.load", ix.load),
		fn.Then(
			fn.TracedStage("index.extract", ix.extract),
			fn.Then(
				fn.TracedStage("index.chunk", ix.chunk),
				fn.Then(
					fn.TracedStage("index.embed", ix.embedChunks),
					fn.TracedStage("index.store", ix.storeChunks),
				),
			),
		),
	)

	result := pipeline(ctx, documentID)
	if result.IsErr() {
		_, err := result.Unwrap()
		return err
	}

	n, _ := result.Unwrap()
	ix.log.Info("document indexed", "document_id", documentID, "chunks", n)
	return nil
}

func (ix *Indexer) load(ctx context.Context, documentID string) fn.Result[indexJob] {
	doc, err := ix.store.Document(ctx, documentID)
	if err != nil {
		return fn.Err[indexJob](fmt.Errorf("ingest: load %s: %w", documentID, err))
	}
	return fn.Ok(indexJob{doc: doc})
}

// extract resolves the document's text: already-extracted text is reused,
// otherwise the source file is read through the extraction layer.
func (ix *Indexer) extract(_ context.Context, job indexJob) fn.Result[indexJob] {
	if job.doc.ContentText != "" {
		res := extract.FromText(job.doc.ContentText)
		job.text, job.pages = res.Text, res.Pages
		return fn.Ok(job)
	}

	res, err := extract.FromFile(job.doc.FilePath)
	if err != nil {
		return fn.Err[indexJob](err)
	}
	job.text, job.pages = res.Text, res.Pages
	return fn.Ok(job)
}

func (ix *Indexer) chunk(_ context.Context, job indexJob) fn.Result[indexJob] {
	job.chunks = ix.chunker.Chunk(job.doc.ID, job.text, job.pages)
	return fn.Ok(job)
}

// embedChunks attaches vectors where the provider can produce them. Absent
// vectors leave chunks un-embedded rather than failing the pipeline.
func (ix *Indexer) embedChunks(ctx context.Context, job indexJob) fn.Result[indexJob] {
	if len(job.chunks) == 0 {
		return fn.Ok(job)
	}

	texts := fn.Map(job.chunks, func(c domain.Chunk) string { return c.Content })
	vectors := ix.provider.Embed(ctx, texts)
	for i := range job.chunks {
		job.chunks[i].Embedding = vectors[i]
	}
	return fn.Ok(job)
}

func (ix *Indexer) storeChunks(ctx context.Context, job indexJob) fn.Result[int] {
	if err := ix.store.SaveChunks(ctx, job.doc.ID, job.chunks); err != nil {
		return fn.Err[int](fmt.Errorf("ingest: save chunks for %s: %w", job.doc.ID, err))
	}
	if err := ix.store.MarkIndexed(ctx, job.doc.ID); err != nil {
		return fn.Err[int](fmt.Errorf("ingest: mark indexed %s: %w", job.doc.ID, err))
	}
	return fn.Ok(len(job.chunks))
}
