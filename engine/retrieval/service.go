package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/windlabs/wind-engine/engine/domain"
	"github.com/windlabs/wind-engine/engine/embed"
)

// DefaultLimit is the search result count when the caller passes none.
const DefaultLimit = 5

// Hit is one search result: the matched chunk, its parent document summary,
// and the similarity score.
type Hit struct {
	Chunk    domain.Chunk   `json:"chunk"`
	Document domain.Summary `json:"document"`
	Score    float32        `json:"score"`
	Content  string         `json:"content"`
}

// Service answers semantic searches over indexed document chunks.
type Service struct {
	store    domain.DocumentStore
	provider embed.Provider
	log      *slog.Logger
}

// NewService creates a retrieval Service over the given store and embedding
// provider.
func NewService(store domain.DocumentStore, provider embed.Provider, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, provider: provider, log: log}
}

// Search returns up to limit chunks relevant to query, restricted to active
// documents and, when category is non-empty, to that category. A blank query
// yields an empty result, not an error. When the query vector or all
// candidate vectors are absent, ranking falls back to substring containment.
func (s *Service) Search(ctx context.Context, query, category string, limit int) ([]Hit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	candidates, err := s.store.Chunks(ctx, domain.ChunkFilter{
		Category:   category,
		ActiveOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("retrieval: query chunks: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	queryVec := s.provider.Embed(ctx, []string{query})[0]

	var scored []Scored
	if queryVec != nil {
		scored = RankByVector(queryVec, candidates, limit)
	}
	if len(scored) == 0 {
		scored = MatchSubstring(query, candidates, limit)
	}

	return s.attachSummaries(ctx, scored), nil
}

// attachSummaries merges each scored chunk with its parent document summary.
// Chunks whose document has vanished are dropped with a warning.
func (s *Service) attachSummaries(ctx context.Context, scored []Scored) []Hit {
	summaries := make(map[string]domain.Summary)
	hits := make([]Hit, 0, len(scored))

	for _, sc := range scored {
		summary, ok := summaries[sc.Chunk.DocumentID]
		if !ok {
			doc, err := s.store.Document(ctx, sc.Chunk.DocumentID)
			if err != nil {
				s.log.Warn("retrieval: missing parent document",
					"document_id", sc.Chunk.DocumentID, "error", err)
				continue
			}
			summary = doc.Summary()
			summaries[sc.Chunk.DocumentID] = summary
		}
		hits = append(hits, Hit{
			Chunk:    sc.Chunk,
			Document: summary,
			Score:    sc.Score,
			Content:  sc.Chunk.Content,
		})
	}
	return hits
}
