package docstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/windlabs/wind-engine/engine/domain"
)

// Memory is an in-process store with the same surface as SQLite. Intended for
// tests and single-binary setups with no persistence needs.
type Memory struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	chunks    map[string][]domain.Chunk
	requests  map[string]domain.GuestRequest
	messages  map[string][]domain.Message
	docOrder  []string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string][]domain.Chunk),
		requests:  make(map[string]domain.GuestRequest),
		messages:  make(map[string][]domain.Message),
	}
}

// CreateDocument inserts a document, assigning an ID when absent.
func (m *Memory) CreateDocument(_ context.Context, doc domain.Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.Category == "" {
		doc.Category = "general"
	}
	if _, exists := m.documents[doc.ID]; !exists {
		m.docOrder = append(m.docOrder, doc.ID)
	}
	m.documents[doc.ID] = doc
	return doc.ID, nil
}

// Document implements domain.DocumentStore.
func (m *Memory) Document(_ context.Context, id string) (domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.documents[id]
	if !ok {
		return domain.Document{}, fmt.Errorf("docstore: document %s: %w", id, domain.ErrUnknownDocument)
	}
	return doc, nil
}

// SaveChunks replaces the chunk set for a document.
func (m *Memory) SaveChunks(_ context.Context, documentID string, chunks []domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]domain.Chunk, len(chunks))
	copy(cp, chunks)
	m.chunks[documentID] = cp
	return nil
}

// MarkIndexed flags a document as indexed.
func (m *Memory) MarkIndexed(_ context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.documents[documentID]
	if !ok {
		return fmt.Errorf("docstore: mark indexed %s: %w", documentID, domain.ErrUnknownDocument)
	}
	doc.Indexed = true
	m.documents[documentID] = doc
	return nil
}

// Chunks implements domain.DocumentStore. Results follow document insertion
// order, then chunk index order.
func (m *Memory) Chunks(_ context.Context, filter domain.ChunkFilter) ([]domain.Chunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Chunk
	for _, docID := range m.docOrder {
		doc := m.documents[docID]
		if filter.ActiveOnly && !doc.Active {
			continue
		}
		if filter.Category != "" && doc.Category != filter.Category {
			continue
		}
		for _, c := range m.chunks[docID] {
			if filter.WithEmbedding != nil && (c.Embedding != nil) != *filter.WithEmbedding {
				continue
			}
			out = append(out, c)
		}
	}
	return out, nil
}

// CreateRequest implements domain.RequestSink.
func (m *Memory) CreateRequest(_ context.Context, req domain.GuestRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	m.requests[req.ID] = req
	return req.ID, nil
}

// Request returns a stored guest request by ID.
func (m *Memory) Request(id string) (domain.GuestRequest, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	req, ok := m.requests[id]
	return req, ok
}

// AppendMessage records one conversation turn.
func (m *Memory) AppendMessage(_ context.Context, conversationID string, msg domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[conversationID] = append(m.messages[conversationID], msg)
	return nil
}

// RecentMessages implements domain.HistoryStore.
func (m *Memory) RecentMessages(_ context.Context, conversationID string, limit int) ([]domain.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msgs := m.messages[conversationID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}
