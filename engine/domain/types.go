// Package domain defines the core types and collaborator interfaces for the
// Wind guest-assistant engine: documents and their chunks, guest requests,
// conversation messages, and the store boundaries the pipeline talks through.
package domain

import (
	"context"
	"time"
)

// Document is a hotel reference document (policy, menu, amenity guide, ...).
// The store owns the raw file; the engine reads extracted text and writes
// derived chunk data.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	FilePath    string    `json:"file_path,omitempty"`
	Category    string    `json:"category"`
	ContentText string    `json:"content_text,omitempty"`
	Active      bool      `json:"active"`
	Indexed     bool      `json:"indexed"`
	UploadedBy  string    `json:"uploaded_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Summary is the lightweight view of a Document attached to retrieval hits.
type Summary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

// Summary returns the lightweight view of the document.
func (d Document) Summary() Summary {
	return Summary{ID: d.ID, Title: d.Title, Category: d.Category}
}

// PageBoundary maps a page number to its character range [CharStart, CharEnd]
// within the document's extracted text.
type PageBoundary struct {
	PageNumber int `json:"page_number"`
	CharStart  int `json:"char_start"`
	CharEnd    int `json:"char_end"`
}

// Chunk is a bounded slice of a document's extracted text, the unit of
// retrieval. Index is contiguous from 0 within the owning document.
// StartChar/EndChar are the [start, end) span of Content within the source
// text, located at its first occurrence. Embedding is nil when no embedding
// backend was available at indexing time.
type Chunk struct {
	DocumentID string    `json:"document_id"`
	Index      int       `json:"index"`
	Content    string    `json:"content"`
	StartChar  int       `json:"start_char"`
	EndChar    int       `json:"end_char"`
	PageNumber int       `json:"page_number"`
	Embedding  []float32 `json:"embedding,omitempty"`
}

// RequestType enumerates trackable guest request categories.
type RequestType string

const (
	RequestRoomService  RequestType = "room_service"
	RequestConcierge    RequestType = "concierge"
	RequestMaintenance  RequestType = "maintenance"
	RequestHousekeeping RequestType = "housekeeping"
	RequestComplaint    RequestType = "complaint"
)

// Priority enumerates guest request urgency levels.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
)

// GuestRequest is a structured service task derived from a classified guest
// message. Status transitions after creation belong to the request tracker,
// not the engine.
type GuestRequest struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversation_id"`
	UserID         string      `json:"user_id"`
	Type           RequestType `json:"type"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	RoomNumber     string      `json:"room_number,omitempty"`
	Priority       Priority    `json:"priority"`
	Status         string      `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
}

// Message is one turn of a conversation, as stored by the history collaborator.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChunkFilter narrows a chunk query. Category is exact-match when non-empty.
// WithEmbedding, when non-nil, selects chunks that do (true) or do not (false)
// carry an embedding vector.
type ChunkFilter struct {
	Category      string
	ActiveOnly    bool
	WithEmbedding *bool
}

// DocumentStore is the persistence boundary for documents and derived chunks.
// The engine never opens connections itself.
type DocumentStore interface {
	Document(ctx context.Context, id string) (Document, error)
	SaveChunks(ctx context.Context, documentID string, chunks []Chunk) error
	MarkIndexed(ctx context.Context, documentID string) error
	Chunks(ctx context.Context, filter ChunkFilter) ([]Chunk, error)
}

// RequestSink records guest requests. The only write side effect the reply
// pipeline issues.
type RequestSink interface {
	CreateRequest(ctx context.Context, req GuestRequest) (string, error)
}

// HistoryStore provides read access to recent conversation turns.
type HistoryStore interface {
	RecentMessages(ctx context.Context, conversationID string, limit int) ([]Message, error)
}
