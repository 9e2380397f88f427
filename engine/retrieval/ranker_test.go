package retrieval

import (
	"math"
	"testing"

	"github.com/windlabs/wind-engine/engine/domain"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float32
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero left", []float32{0, 0}, []float32{1, 1}, 0},
		{"zero right", []float32{1, 1}, []float32{0, 0}, 0},
		{"both empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("CosineSimilarity = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestCosineSimilarity_Symmetric(t *testing.T) {
	a := []float32{0.3, -0.7, 0.2, 0.9}
	b := []float32{0.1, 0.4, -0.5, 0.8}
	if ab, ba := CosineSimilarity(a, b), CosineSimilarity(b, a); ab != ba {
		t.Errorf("not symmetric: %f vs %f", ab, ba)
	}
}

func TestRankByVector(t *testing.T) {
	query := []float32{1, 0}
	candidates := []domain.Chunk{
		{Index: 0, Content: "orthogonal", Embedding: []float32{0, 1}},
		{Index: 1, Content: "aligned", Embedding: []float32{2, 0}},
		{Index: 2, Content: "no vector"},
		{Index: 3, Content: "diagonal", Embedding: []float32{1, 1}},
	}

	scored := RankByVector(query, candidates, 10)
	if len(scored) != 3 {
		t.Fatalf("expected 3 scored chunks, got %d", len(scored))
	}
	if scored[0].Chunk.Content != "aligned" {
		t.Errorf("expected aligned first, got %s", scored[0].Chunk.Content)
	}
	if scored[1].Chunk.Content != "diagonal" {
		t.Errorf("expected diagonal second, got %s", scored[1].Chunk.Content)
	}
	if scored[2].Chunk.Content != "orthogonal" {
		t.Errorf("expected orthogonal last, got %s", scored[2].Chunk.Content)
	}
}

func TestRankByVector_Limit(t *testing.T) {
	query := []float32{1}
	candidates := []domain.Chunk{
		{Index: 0, Embedding: []float32{1}},
		{Index: 1, Embedding: []float32{1}},
		{Index: 2, Embedding: []float32{1}},
	}
	scored := RankByVector(query, candidates, 2)
	if len(scored) != 2 {
		t.Fatalf("expected 2 results, got %d", len(scored))
	}
	// Equal scores keep input order.
	if scored[0].Chunk.Index != 0 || scored[1].Chunk.Index != 1 {
		t.Errorf("tie order broken: %d, %d", scored[0].Chunk.Index, scored[1].Chunk.Index)
	}
}

func TestMatchSubstring(t *testing.T) {
	candidates := []domain.Chunk{
		{Index: 0, Content: "Breakfast is served until 10am"},
		{Index: 1, Content: "The pool closes at 10pm"},
		{Index: 2, Content: "Late breakfast available on Sundays"},
	}

	scored := MatchSubstring("breakfast", candidates, 10)
	if len(scored) != 1 {
		t.Fatalf("expected 1 case-sensitive match, got %d", len(scored))
	}
	if scored[0].Chunk.Index != 2 {
		t.Errorf("expected chunk 2, got %d", scored[0].Chunk.Index)
	}
	if scored[0].Score != FallbackScore {
		t.Errorf("expected fallback score %f, got %f", FallbackScore, scored[0].Score)
	}
}

func TestMatchSubstring_OrderAndLimit(t *testing.T) {
	candidates := []domain.Chunk{
		{Index: 0, Content: "spa opens early"},
		{Index: 1, Content: "no match here"},
		{Index: 2, Content: "spa closes late"},
		{Index: 3, Content: "spa treatments"},
	}
	scored := MatchSubstring("spa", candidates, 2)
	if len(scored) != 2 {
		t.Fatalf("expected 2 results, got %d", len(scored))
	}
	if scored[0].Chunk.Index != 0 || scored[1].Chunk.Index != 2 {
		t.Errorf("input order broken: %d, %d", scored[0].Chunk.Index, scored[1].Chunk.Index)
	}
}
