// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Raw status and unknown fields are kept as JSON columns to survive round trips

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// timeLayout pads the fraction to a fixed width so the stored text sorts
// lexicographically in chronological order. RFC3339Nano would strip
// trailing zeros and break ORDER BY created_at for whole-second values.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is created if it doesn't exist, as are parent directories.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// WAL improves concurrent read behavior under the snapshot feed
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, logger: logger}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			conversation_id TEXT NOT NULL,
			question TEXT NOT NULL,
			answer TEXT NOT NULL DEFAULT '',
			status TEXT,
			extra TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_messages_conversation_created
			ON messages(conversation_id, created_at, id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

// AppendMessage inserts a new document, assigning an id and timestamps.
func (s *SQLiteStore) AppendMessage(ctx context.Context, doc *Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = doc.CreatedAt

	statusJSON, err := encodeJSON(doc.Status)
	if err != nil {
		return fmt.Errorf("encoding status: %w", err)
	}
	extraJSON, err := encodeJSON(doc.Extra)
	if err != nil {
		return fmt.Errorf("encoding extra fields: %w", err)
	}

	query := `
		INSERT INTO messages (id, conversation_id, question, answer, status, extra, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		doc.ID,
		doc.ConversationID,
		doc.Question,
		doc.Answer,
		statusJSON,
		extraJSON,
		doc.CreatedAt.Format(timeLayout),
		doc.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}

	s.logger.Debug("appended message", "id", doc.ID, "conversation_id", doc.ConversationID)
	return nil
}

// GetMessage retrieves a single document by id.
func (s *SQLiteStore) GetMessage(ctx context.Context, id string) (*Document, error) {
	query := `
		SELECT id, conversation_id, question, answer, status, extra, created_at, updated_at
		FROM messages
		WHERE id = ?
	`
	row := s.db.QueryRowContext(ctx, query, id)
	doc, err := scanDocument(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting message: %w", err)
	}
	return doc, nil
}

// ListMessages returns a conversation's documents in (created_at, id) order.
func (s *SQLiteStore) ListMessages(ctx context.Context, conversationID string, limit int) ([]*Document, error) {
	var query string
	var args []any

	if limit > 0 {
		// Keep the N most recent documents but return them ascending
		query = `
			SELECT id, conversation_id, question, answer, status, extra, created_at, updated_at
			FROM (
				SELECT id, conversation_id, question, answer, status, extra, created_at, updated_at
				FROM messages
				WHERE conversation_id = ?
				ORDER BY created_at DESC, id DESC
				LIMIT ?
			)
			ORDER BY created_at ASC, id ASC
		`
		args = []any{conversationID, limit}
	} else {
		query = `
			SELECT id, conversation_id, question, answer, status, extra, created_at, updated_at
			FROM messages
			WHERE conversation_id = ?
			ORDER BY created_at ASC, id ASC
		`
		args = []any{conversationID}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating message rows: %w", err)
	}
	return docs, nil
}

// UpdateAnswer overwrites answer and raw status for an existing document.
func (s *SQLiteStore) UpdateAnswer(ctx context.Context, id string, answer string, status any) error {
	statusJSON, err := encodeJSON(status)
	if err != nil {
		return fmt.Errorf("encoding status: %w", err)
	}

	query := `
		UPDATE messages
		SET answer = ?, status = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := s.db.ExecContext(ctx, query,
		answer,
		statusJSON,
		time.Now().UTC().Format(timeLayout),
		id,
	)
	if err != nil {
		return fmt.Errorf("updating answer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	s.logger.Debug("updated answer", "id", id)
	return nil
}

// DeleteMessage removes a single document.
func (s *SQLiteStore) DeleteMessage(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting message: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteConversation removes every document in a conversation.
func (s *SQLiteStore) DeleteConversation(ctx context.Context, conversationID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = ?`, conversationID)
	if err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}
	n, _ := res.RowsAffected()
	s.logger.Debug("cleared conversation", "conversation_id", conversationID, "deleted", n)
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanDocument reads one row into a Document, decoding the JSON columns.
func scanDocument(scan func(dest ...any) error) (*Document, error) {
	var doc Document
	var statusJSON, extraJSON sql.NullString
	var createdAtStr, updatedAtStr string

	if err := scan(
		&doc.ID,
		&doc.ConversationID,
		&doc.Question,
		&doc.Answer,
		&statusJSON,
		&extraJSON,
		&createdAtStr,
		&updatedAtStr,
	); err != nil {
		return nil, err
	}

	var err error
	doc.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	doc.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	if statusJSON.Valid && statusJSON.String != "" {
		if err := json.Unmarshal([]byte(statusJSON.String), &doc.Status); err != nil {
			// A malformed status blob is still a present status; keep the
			// raw text so reconciliation can fall through to inference.
			doc.Status = statusJSON.String
		}
	}
	if extraJSON.Valid && extraJSON.String != "" {
		_ = json.Unmarshal([]byte(extraJSON.String), &doc.Extra)
	}

	return &doc, nil
}

// encodeJSON marshals a value for a nullable JSON column. nil maps to NULL.
func encodeJSON(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if m, ok := v.(map[string]any); ok && len(m) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
