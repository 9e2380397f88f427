// Package docstore provides storage backends for documents, chunks, guest
// requests, and conversation history.
package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/windlabs/wind-engine/engine/domain"
)

// SQLite is the relational store. It implements domain.DocumentStore,
// domain.RequestSink, and domain.HistoryStore over a single database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) the database at path. Use ":memory:" for an
// ephemeral store.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("docstore: open %s: %w", path, err)
	}
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	file_path    TEXT NOT NULL DEFAULT '',
	category     TEXT NOT NULL DEFAULT 'general',
	content_text TEXT NOT NULL DEFAULT '',
	active       INTEGER NOT NULL DEFAULT 1,
	indexed      INTEGER NOT NULL DEFAULT 0,
	uploaded_by  TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS chunks (
	document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	chunk_index INTEGER NOT NULL,
	content     TEXT NOT NULL,
	start_char  INTEGER NOT NULL,
	end_char    INTEGER NOT NULL,
	page_number INTEGER NOT NULL DEFAULT 1,
	embedding   TEXT,
	PRIMARY KEY (document_id, chunk_index)
);
CREATE TABLE IF NOT EXISTS guest_requests (
	id              TEXT PRIMARY KEY,
	conversation_id TEXT NOT NULL,
	user_id         TEXT NOT NULL,
	type            TEXT NOT NULL,
	title           TEXT NOT NULL,
	description     TEXT NOT NULL,
	room_number     TEXT NOT NULL DEFAULT '',
	priority        TEXT NOT NULL,
	status          TEXT NOT NULL,
	created_at      TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS messages (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	conversation_id TEXT NOT NULL,
	role            TEXT NOT NULL,
	content         TEXT NOT NULL,
	created_at      TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chunks_document ON chunks(document_id);
CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, id);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("docstore: migrate: %w", err)
	}
	return nil
}

// CreateDocument inserts a new document. When doc.ID is empty a UUID is
// assigned. Returns the document ID.
func (s *SQLite) CreateDocument(ctx context.Context, doc domain.Document) (string, error) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.Category == "" {
		doc.Category = "general"
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, file_path, category, content_text, active, indexed, uploaded_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		doc.ID, doc.Title, doc.FilePath, doc.Category, doc.ContentText, doc.Active, doc.UploadedBy, doc.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("docstore: create document: %w", err)
	}
	return doc.ID, nil
}

// Document implements domain.DocumentStore.
func (s *SQLite) Document(ctx context.Context, id string) (domain.Document, error) {
	var doc domain.Document
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, file_path, category, content_text, active, indexed, uploaded_by, created_at
		FROM documents WHERE id = ?`, id,
	).Scan(&doc.ID, &doc.Title, &doc.FilePath, &doc.Category, &doc.ContentText,
		&doc.Active, &doc.Indexed, &doc.UploadedBy, &doc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Document{}, fmt.Errorf("docstore: document %s: %w", id, domain.ErrUnknownDocument)
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("docstore: document %s: %w", id, err)
	}
	return doc, nil
}

// SaveChunks replaces the chunk set for a document in one transaction.
func (s *SQLite) SaveChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("docstore: save chunks: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("docstore: save chunks: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (document_id, chunk_index, content, start_char, end_char, page_number, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("docstore: save chunks: %w", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		var emb any
		if c.Embedding != nil {
			data, err := json.Marshal(c.Embedding)
			if err != nil {
				return fmt.Errorf("docstore: save chunks: %w", err)
			}
			emb = string(data)
		}
		if _, err := stmt.ExecContext(ctx, documentID, c.Index, c.Content, c.StartChar, c.EndChar, c.PageNumber, emb); err != nil {
			return fmt.Errorf("docstore: save chunk %d: %w", c.Index, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("docstore: save chunks: %w", err)
	}
	return nil
}

// MarkIndexed flags a document as indexed.
func (s *SQLite) MarkIndexed(ctx context.Context, documentID string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE documents SET indexed = 1 WHERE id = ?`, documentID)
	if err != nil {
		return fmt.Errorf("docstore: mark indexed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("docstore: mark indexed %s: %w", documentID, domain.ErrUnknownDocument)
	}
	return nil
}

// Chunks implements domain.DocumentStore.
func (s *SQLite) Chunks(ctx context.Context, filter domain.ChunkFilter) ([]domain.Chunk, error) {
	query := `
		SELECT c.document_id, c.chunk_index, c.content, c.start_char, c.end_char, c.page_number, c.embedding
		FROM chunks c JOIN documents d ON d.id = c.document_id
		WHERE 1=1`
	var args []any
	if filter.ActiveOnly {
		query += ` AND d.active = 1`
	}
	if filter.Category != "" {
		query += ` AND d.category = ?`
		args = append(args, filter.Category)
	}
	if filter.WithEmbedding != nil {
		if *filter.WithEmbedding {
			query += ` AND c.embedding IS NOT NULL`
		} else {
			query += ` AND c.embedding IS NULL`
		}
	}
	query += ` ORDER BY c.document_id, c.chunk_index`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("docstore: chunks: %w", err)
	}
	defer rows.Close()

	var out []domain.Chunk
	for rows.Next() {
		var c domain.Chunk
		var emb sql.NullString
		if err := rows.Scan(&c.DocumentID, &c.Index, &c.Content, &c.StartChar, &c.EndChar, &c.PageNumber, &emb); err != nil {
			return nil, fmt.Errorf("docstore: chunks: %w", err)
		}
		if emb.Valid {
			if err := json.Unmarshal([]byte(emb.String), &c.Embedding); err != nil {
				return nil, fmt.Errorf("docstore: chunk %s/%d embedding: %w", c.DocumentID, c.Index, err)
			}
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("docstore: chunks: %w", err)
	}
	return out, nil
}

// CreateRequest implements domain.RequestSink.
func (s *SQLite) CreateRequest(ctx context.Context, req domain.GuestRequest) (string, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO guest_requests (id, conversation_id, user_id, type, title, description, room_number, priority, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.ConversationID, req.UserID, req.Type, req.Title, req.Description,
		req.RoomNumber, req.Priority, req.Status, req.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("docstore: create request: %w", err)
	}
	return req.ID, nil
}

// AppendMessage records one conversation turn.
func (s *SQLite) AppendMessage(ctx context.Context, conversationID string, msg domain.Message) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (conversation_id, role, content, created_at)
		VALUES (?, ?, ?, ?)`,
		conversationID, msg.Role, msg.Content, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("docstore: append message: %w", err)
	}
	return nil
}

// RecentMessages implements domain.HistoryStore. Messages come back oldest
// first, capped at limit.
func (s *SQLite) RecentMessages(ctx context.Context, conversationID string, limit int) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT role, content FROM (
			SELECT id, role, content FROM messages
			WHERE conversation_id = ?
			ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("docstore: recent messages: %w", err)
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.Role, &m.Content); err != nil {
			return nil, fmt.Errorf("docstore: recent messages: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("docstore: recent messages: %w", err)
	}
	return out, nil
}
