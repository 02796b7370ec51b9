// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu   sync.RWMutex
	docs map[string]*Document // keyed by document ID

	// AppendErr, when set, is returned by AppendMessage. Lets tests
	// simulate transport failures at the backend boundary.
	AppendErr error

	appendCalls int
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{docs: make(map[string]*Document)}
}

// AppendCalls reports how many times AppendMessage was invoked.
func (m *MockStore) AppendCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.appendCalls
}

// AppendMessage stores a new document, assigning id and timestamps.
func (m *MockStore) AppendMessage(ctx context.Context, doc *Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.appendCalls++
	if m.AppendErr != nil {
		return m.AppendErr
	}

	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	doc.UpdatedAt = doc.CreatedAt

	d := *doc
	m.docs[d.ID] = &d
	return nil
}

// GetMessage retrieves a document by ID.
func (m *MockStore) GetMessage(ctx context.Context, id string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	d := *doc
	return &d, nil
}

// ListMessages returns a conversation's documents in (CreatedAt, ID) order.
func (m *MockStore) ListMessages(ctx context.Context, conversationID string, limit int) ([]*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var docs []*Document
	for _, doc := range m.docs {
		if doc.ConversationID != conversationID {
			continue
		}
		d := *doc
		docs = append(docs, &d)
	}

	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.Before(docs[j].CreatedAt)
		}
		return docs[i].ID < docs[j].ID
	})

	if limit > 0 && len(docs) > limit {
		docs = docs[len(docs)-limit:]
	}
	return docs, nil
}

// UpdateAnswer overwrites answer and raw status for an existing document.
func (m *MockStore) UpdateAnswer(ctx context.Context, id string, answer string, status any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[id]
	if !ok {
		return ErrNotFound
	}
	doc.Answer = answer
	doc.Status = status
	doc.UpdatedAt = time.Now().UTC()
	return nil
}

// DeleteMessage removes a single document.
func (m *MockStore) DeleteMessage(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[id]; !ok {
		return ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

// DeleteConversation removes every document in a conversation.
func (m *MockStore) DeleteConversation(ctx context.Context, conversationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, doc := range m.docs {
		if doc.ConversationID == conversationID {
			delete(m.docs, id)
		}
	}
	return nil
}

// Close is a no-op for the mock.
func (m *MockStore) Close() error {
	return nil
}
