package semantic

import (
	"context"
	"testing"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"

	"github.com/windlabs/wind-engine/engine/domain"
)

// capturingPoints records write requests without talking to a server.
// Unimplemented PointsClient methods panic via the embedded nil interface.
type capturingPoints struct {
	pb.PointsClient
	upserts []*pb.UpsertPoints
	deletes []*pb.DeletePoints
}

func (c *capturingPoints) Upsert(ctx context.Context, in *pb.UpsertPoints, opts ...grpc.CallOption) (*pb.PointsOperationResponse, error) {
	c.upserts = append(c.upserts, in)
	return &pb.PointsOperationResponse{}, nil
}

func (c *capturingPoints) Delete(ctx context.Context, in *pb.DeletePoints, opts ...grpc.CallOption) (*pb.PointsOperationResponse, error) {
	c.deletes = append(c.deletes, in)
	return &pb.PointsOperationResponse{}, nil
}

func TestMirror_UpsertPadsAbsentEmbeddings(t *testing.T) {
	fake := &capturingPoints{}
	m := &Mirror{points: fake, collection: "chunks", dims: 384}

	doc := domain.Document{ID: "d1", Category: "policies", Active: true}
	chunks := []domain.Chunk{
		{DocumentID: "d1", Index: 0, Content: "check-out is at 11am", StartChar: 0, EndChar: 20, PageNumber: 1},
		{DocumentID: "d1", Index: 1, Content: "late check-out on request", StartChar: 21, EndChar: 46, PageNumber: 1},
	}
	if err := m.Upsert(context.Background(), doc, chunks); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if len(fake.upserts) != 1 {
		t.Fatalf("expected 1 upsert request, got %d", len(fake.upserts))
	}
	points := fake.upserts[0].GetPoints()
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	for i, p := range points {
		vec := p.GetVectors().GetVector().GetData()
		if len(vec) != 384 {
			t.Errorf("point %d: vector length = %d, want 384", i, len(vec))
		}
		if p.GetPayload()["has_embedding"].GetBoolValue() {
			t.Errorf("point %d: has_embedding = true, want false", i)
		}
	}
}

func TestMirror_UpsertKeepsRealEmbeddings(t *testing.T) {
	fake := &capturingPoints{}
	m := &Mirror{points: fake, collection: "chunks", dims: 3}

	doc := domain.Document{ID: "d2", Category: "amenities", Active: true}
	chunks := []domain.Chunk{
		{DocumentID: "d2", Index: 0, Content: "pool hours", Embedding: []float32{0.1, 0.2, 0.3}},
		{DocumentID: "d2", Index: 1, Content: "gym hours"},
	}
	if err := m.Upsert(context.Background(), doc, chunks); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	points := fake.upserts[0].GetPoints()
	if got := points[0].GetVectors().GetVector().GetData(); len(got) != 3 || got[0] != 0.1 {
		t.Errorf("point 0: vector = %v, want [0.1 0.2 0.3]", got)
	}
	if !points[0].GetPayload()["has_embedding"].GetBoolValue() {
		t.Error("point 0: has_embedding = false, want true")
	}
	if got := points[1].GetVectors().GetVector().GetData(); len(got) != 3 {
		t.Errorf("point 1: vector length = %d, want 3", len(got))
	}
	if points[1].GetPayload()["has_embedding"].GetBoolValue() {
		t.Error("point 1: has_embedding = true, want false")
	}
}
