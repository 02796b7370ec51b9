// ABOUTME: Store interface and document types for sahayak persistence
// ABOUTME: Documents keep the backend's raw status shape; reconciliation happens downstream

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("not found")

// Document is one stored question/answer record, as the backend holds it.
// Status is deliberately untyped: historical writers stored a bare string,
// newer workers store a structured object, and some rows carry nothing at
// all. Extra preserves unknown fields from external writers so they survive
// a round trip through the store.
type Document struct {
	ID             string
	ConversationID string
	Question       string
	Answer         string
	Status         any
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Extra          map[string]any
}

// Store defines the interface for conversation document persistence.
type Store interface {
	// AppendMessage inserts a new document, assigning its ID and timestamps.
	AppendMessage(ctx context.Context, doc *Document) error

	// GetMessage retrieves a single document by id.
	GetMessage(ctx context.Context, id string) (*Document, error)

	// ListMessages returns a conversation's documents ordered by
	// (created_at, id) ascending. limit <= 0 means no limit; a positive
	// limit keeps the most recent documents, still in ascending order.
	ListMessages(ctx context.Context, conversationID string, limit int) ([]*Document, error)

	// UpdateAnswer overwrites a document's answer and raw status and bumps
	// updated_at. This is the seam the answer worker writes through.
	UpdateAnswer(ctx context.Context, id string, answer string, status any) error

	// DeleteMessage removes a single document.
	DeleteMessage(ctx context.Context, id string) error

	// DeleteConversation removes every document in a conversation.
	DeleteConversation(ctx context.Context, conversationID string) error

	// Close releases any resources held by the store.
	Close() error
}
