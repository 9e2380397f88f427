// Package retrieval ranks document chunks against guest queries. Ranking is
// brute-force cosine similarity over the candidate set the store returns;
// when vectors are absent on either side it degrades to a substring
// containment scan so the result shape stays uniform for callers.
package retrieval

import (
	"math"
	"sort"
	"strings"

	"github.com/windlabs/wind-engine/engine/domain"
)

// FallbackScore is the placeholder assigned to substring-matched chunks.
const FallbackScore = 0.5

// Scored pairs a chunk with its similarity score.
type Scored struct {
	Chunk domain.Chunk
	Score float32
}

// CosineSimilarity returns the normalized dot product of a and b. A zero
// norm on either side scores 0 instead of dividing by zero. Extra trailing
// components of the longer vector are ignored.
func CosineSimilarity(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, v := range a {
		normA += float64(v) * float64(v)
	}
	for _, v := range b {
		normB += float64(v) * float64(v)
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// RankByVector scores every candidate carrying an embedding against the query
// vector and returns the top limit results in descending score order. Ties
// keep input order.
func RankByVector(query []float32, candidates []domain.Chunk, limit int) []Scored {
	scored := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		if c.Embedding == nil {
			continue
		}
		scored = append(scored, Scored{Chunk: c, Score: CosineSimilarity(c.Embedding, query)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// MatchSubstring is the textual fallback: candidates whose content contains
// the query (case-sensitive) are returned in input order, each with the fixed
// fallback score.
func MatchSubstring(query string, candidates []domain.Chunk, limit int) []Scored {
	var out []Scored
	for _, c := range candidates {
		if !strings.Contains(c.Content, query) {
			continue
		}
		out = append(out, Scored{Chunk: c, Score: FallbackScore})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
