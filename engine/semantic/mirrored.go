package semantic

import (
	"context"

	"github.com/windlabs/wind-engine/engine/domain"
)

// MirroredStore layers a Mirror over a primary document store. Document
// metadata and writes go to the primary; chunk reads are served from Qdrant,
// which both processes share. SaveChunks writes to the primary first so the
// relational store stays the source of truth.
type MirroredStore struct {
	primary domain.DocumentStore
	mirror  *Mirror
}

// NewMirroredStore wraps primary with the given mirror.
func NewMirroredStore(primary domain.DocumentStore, mirror *Mirror) *MirroredStore {
	return &MirroredStore{primary: primary, mirror: mirror}
}

// Document implements domain.DocumentStore.
func (s *MirroredStore) Document(ctx context.Context, id string) (domain.Document, error) {
	return s.primary.Document(ctx, id)
}

// SaveChunks writes the chunk set to the primary store, then mirrors it.
func (s *MirroredStore) SaveChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error {
	if err := s.primary.SaveChunks(ctx, documentID, chunks); err != nil {
		return err
	}
	doc, err := s.primary.Document(ctx, documentID)
	if err != nil {
		return err
	}
	return s.mirror.Upsert(ctx, doc, chunks)
}

// MarkIndexed implements domain.DocumentStore.
func (s *MirroredStore) MarkIndexed(ctx context.Context, documentID string) error {
	return s.primary.MarkIndexed(ctx, documentID)
}

// Chunks serves chunk queries from the mirror.
func (s *MirroredStore) Chunks(ctx context.Context, filter domain.ChunkFilter) ([]domain.Chunk, error) {
	return s.mirror.Chunks(ctx, filter)
}
