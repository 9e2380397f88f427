// Package semantic mirrors document chunks into Qdrant so retrieval state
// survives restarts and can be shared between the API and indexer processes.
package semantic

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/windlabs/wind-engine/engine/domain"
)

// scrollPageSize bounds one Scroll round trip.
const scrollPageSize = 256

// Mirror is the sole owner of all Qdrant operations.
type Mirror struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string
	dims        int
}

// NewMirror creates a Mirror connected to Qdrant at the given gRPC address.
func NewMirror(addr string, collection string) (*Mirror, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("semantic: dial qdrant %s: %w", addr, err)
	}
	return &Mirror{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
	}, nil
}

// Close closes the underlying gRPC connection.
func (m *Mirror) Close() error {
	return m.conn.Close()
}

// EnsureCollection creates the collection if it doesn't exist. The width is
// remembered so embedding-less chunks can be padded to match on Upsert.
func (m *Mirror) EnsureCollection(ctx context.Context, dims int) error {
	m.dims = dims
	list, err := m.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("semantic: list collections: %w", err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == m.collection {
			return nil
		}
	}

	d := uint64(dims)
	_, err = m.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: m.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     d,
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("semantic: create collection %s: %w", m.collection, err)
	}
	return nil
}

// DeleteCollection deletes the collection.
func (m *Mirror) DeleteCollection(ctx context.Context) error {
	_, err := m.collections.Delete(ctx, &pb.DeleteCollection{
		CollectionName: m.collection,
	})
	if err != nil {
		return fmt.Errorf("semantic: delete collection %s: %w", m.collection, err)
	}
	return nil
}

// pointID derives a stable UUID for a chunk so re-indexing overwrites in
// place instead of accumulating stale points.
func pointID(documentID string, index int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s:%d", documentID, index))).String()
}

// Upsert mirrors a document's chunk set into Qdrant, replacing any previous
// points for that document. Chunks without embeddings are stored with a
// zero vector so substring fallback still sees them.
func (m *Mirror) Upsert(ctx context.Context, doc domain.Document, chunks []domain.Chunk) error {
	if err := m.DeleteByDocument(ctx, doc.ID); err != nil {
		return err
	}
	if len(chunks) == 0 {
		return nil
	}

	// Pad absent embeddings to the collection width; Qdrant rejects points
	// whose vector length disagrees with the collection config.
	dim := m.dims
	if dim == 0 {
		for _, c := range chunks {
			if len(c.Embedding) > 0 {
				dim = len(c.Embedding)
				break
			}
		}
	}

	points := make([]*pb.PointStruct, len(chunks))
	for i, c := range chunks {
		vec := c.Embedding
		if vec == nil {
			vec = make([]float32, dim)
		}
		points[i] = &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{Uuid: pointID(doc.ID, c.Index)},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: vec},
				},
			},
			Payload: map[string]*pb.Value{
				"doc_id":        stringValue(doc.ID),
				"category":      stringValue(doc.Category),
				"active":        boolValue(doc.Active),
				"content":       stringValue(c.Content),
				"chunk_index":   intValue(c.Index),
				"start_char":    intValue(c.StartChar),
				"end_char":      intValue(c.EndChar),
				"page_number":   intValue(c.PageNumber),
				"has_embedding": boolValue(c.Embedding != nil),
			},
		}
	}

	wait := true
	_, err := m.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: m.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("semantic: upsert %d points: %w", len(points), err)
	}
	return nil
}

// DeleteByDocument removes all points belonging to a document.
func (m *Mirror) DeleteByDocument(ctx context.Context, documentID string) error {
	wait := true
	_, err := m.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: m.collection,
		Wait:           &wait,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Filter{
				Filter: &pb.Filter{
					Must: []*pb.Condition{
						fieldMatch("doc_id", documentID),
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("semantic: delete by doc_id %s: %w", documentID, err)
	}
	return nil
}

// Chunks pages through the collection and reconstructs the chunk set matching
// the filter, vectors included.
func (m *Mirror) Chunks(ctx context.Context, filter domain.ChunkFilter) ([]domain.Chunk, error) {
	var must []*pb.Condition
	if filter.Category != "" {
		must = append(must, fieldMatch("category", filter.Category))
	}
	if filter.ActiveOnly {
		must = append(must, boolMatch("active", true))
	}
	if filter.WithEmbedding != nil {
		must = append(must, boolMatch("has_embedding", *filter.WithEmbedding))
	}

	req := &pb.ScrollPoints{
		CollectionName: m.collection,
		Limit:          ptr(uint32(scrollPageSize)),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
		WithVectors:    &pb.WithVectorsSelector{SelectorOptions: &pb.WithVectorsSelector_Enable{Enable: true}},
	}
	if len(must) > 0 {
		req.Filter = &pb.Filter{Must: must}
	}

	var out []domain.Chunk
	for {
		resp, err := m.points.Scroll(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("semantic: scroll: %w", err)
		}
		for _, p := range resp.GetResult() {
			out = append(out, chunkFromPoint(p))
		}
		next := resp.GetNextPageOffset()
		if next == nil {
			break
		}
		req.Offset = next
	}
	return out, nil
}

func chunkFromPoint(p *pb.RetrievedPoint) domain.Chunk {
	payload := p.GetPayload()
	c := domain.Chunk{
		DocumentID: payload["doc_id"].GetStringValue(),
		Index:      int(payload["chunk_index"].GetIntegerValue()),
		Content:    payload["content"].GetStringValue(),
		StartChar:  int(payload["start_char"].GetIntegerValue()),
		EndChar:    int(payload["end_char"].GetIntegerValue()),
		PageNumber: int(payload["page_number"].GetIntegerValue()),
	}
	if payload["has_embedding"].GetBoolValue() {
		c.Embedding = p.GetVectors().GetVector().GetData()
	}
	return c
}

func stringValue(s string) *pb.Value {
	return &pb.Value{Kind: &pb.Value_StringValue{StringValue: s}}
}

func intValue(n int) *pb.Value {
	return &pb.Value{Kind: &pb.Value_IntegerValue{IntegerValue: int64(n)}}
}

func boolValue(b bool) *pb.Value {
	return &pb.Value{Kind: &pb.Value_BoolValue{BoolValue: b}}
}

func fieldMatch(key, value string) *pb.Condition {
	return &pb.Condition{
		ConditionOneOf: &pb.Condition_Field{
			Field: &pb.FieldCondition{
				Key: key,
				Match: &pb.Match{
					MatchValue: &pb.Match_Keyword{Keyword: value},
				},
			},
		},
	}
}

func boolMatch(key string, value bool) *pb.Condition {
	return &pb.Condition{
		ConditionOneOf: &pb.Condition_Field{
			Field: &pb.FieldCondition{
				Key: key,
				Match: &pb.Match{
					MatchValue: &pb.Match_Boolean{Boolean: value},
				},
			},
		},
	}
}

func ptr[T any](v T) *T { return &v }
