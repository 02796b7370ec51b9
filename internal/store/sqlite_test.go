// ABOUTME: Integration tests for the SQLite store implementation
// ABOUTME: Exercises schema creation, JSON status round trips, ordering, deletes

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_AppendAssignsIDAndTimestamps(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc := &Document{ConversationID: "conv-1", Question: "सवाल", Status: "pending"}
	require.NoError(t, s.AppendMessage(ctx, doc))

	assert.NotEmpty(t, doc.ID)
	assert.False(t, doc.CreatedAt.IsZero())
	assert.Equal(t, doc.CreatedAt, doc.UpdatedAt)
}

func TestSQLiteStore_RoundTripStatusShapes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		status any
	}{
		{"string status", "pending"},
		{"structured status", map[string]any{"state": "ERRORED", "error": "boom"}},
		{"absent status", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{ConversationID: "conv-rt", Question: "q", Status: tt.status}
			require.NoError(t, s.AppendMessage(ctx, doc))

			got, err := s.GetMessage(ctx, doc.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.status, got.Status)
		})
	}
}

func TestSQLiteStore_ExtraFieldsSurviveRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc := &Document{
		ConversationID: "conv-1",
		Question:       "q",
		Extra:          map[string]any{"clientVersion": "2.3.1", "locale": "hi-IN"},
	}
	require.NoError(t, s.AppendMessage(ctx, doc))

	got, err := s.GetMessage(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "2.3.1", got.Extra["clientVersion"])
	assert.Equal(t, "hi-IN", got.Extra["locale"])
}

func TestSQLiteStore_GetMessageNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetMessage(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_ListOrdersByCreatedAtThenID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.AppendMessage(ctx, &Document{
		ID: "b", ConversationID: "conv-1", Question: "tie-late", CreatedAt: base.Add(time.Second),
	}))
	require.NoError(t, s.AppendMessage(ctx, &Document{
		ID: "c", ConversationID: "conv-1", Question: "tie", CreatedAt: base,
	}))
	require.NoError(t, s.AppendMessage(ctx, &Document{
		ID: "a", ConversationID: "conv-1", Question: "tie", CreatedAt: base,
	}))

	docs, err := s.ListMessages(ctx, "conv-1", 0)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "c", docs[1].ID)
	assert.Equal(t, "b", docs[2].ID)
}

func TestSQLiteStore_ListLimitKeepsMostRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.AppendMessage(ctx, &Document{
			ID: id, ConversationID: "conv-1", Question: "q",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	docs, err := s.ListMessages(ctx, "conv-1", 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "b", docs[0].ID)
	assert.Equal(t, "c", docs[1].ID)
}

func TestSQLiteStore_ListLimitOrdersWholeAndFractionalSeconds(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// A whole-second timestamp must sort before a later fractional one in
	// the same second. A trimmed-fraction encoding would put "...05Z"
	// lexicographically after "...05.5Z" and the limit window would pick
	// the wrong document.
	base := time.Date(2026, 8, 1, 9, 0, 5, 0, time.UTC)
	require.NoError(t, s.AppendMessage(ctx, &Document{
		ID: "whole", ConversationID: "conv-1", Question: "q", CreatedAt: base,
	}))
	require.NoError(t, s.AppendMessage(ctx, &Document{
		ID: "fractional", ConversationID: "conv-1", Question: "q",
		CreatedAt: base.Add(500 * time.Millisecond),
	}))

	docs, err := s.ListMessages(ctx, "conv-1", 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "fractional", docs[0].ID)

	docs, err = s.ListMessages(ctx, "conv-1", 0)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "whole", docs[0].ID)
	assert.Equal(t, "fractional", docs[1].ID)
}

func TestSQLiteStore_ListIsolatesConversations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AppendMessage(ctx, &Document{ConversationID: "conv-1", Question: "q1"}))
	require.NoError(t, s.AppendMessage(ctx, &Document{ConversationID: "conv-2", Question: "q2"}))

	docs, err := s.ListMessages(ctx, "conv-1", 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "q1", docs[0].Question)
}

func TestSQLiteStore_UpdateAnswer(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc := &Document{ConversationID: "conv-1", Question: "q", Status: "pending"}
	require.NoError(t, s.AppendMessage(ctx, doc))

	require.NoError(t, s.UpdateAnswer(ctx, doc.ID, "उत्तर", map[string]any{"state": "COMPLETED"}))

	got, err := s.GetMessage(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "उत्तर", got.Answer)
	assert.Equal(t, map[string]any{"state": "COMPLETED"}, got.Status)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt) || got.UpdatedAt.Equal(got.CreatedAt))
}

func TestSQLiteStore_UpdateAnswerNotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateAnswer(context.Background(), "missing", "a", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_DeleteMessage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc := &Document{ConversationID: "conv-1", Question: "q"}
	require.NoError(t, s.AppendMessage(ctx, doc))
	require.NoError(t, s.DeleteMessage(ctx, doc.ID))

	_, err := s.GetMessage(ctx, doc.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.DeleteMessage(ctx, doc.ID), ErrNotFound)
}

func TestSQLiteStore_DeleteConversation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AppendMessage(ctx, &Document{ConversationID: "conv-1", Question: "q1"}))
	require.NoError(t, s.AppendMessage(ctx, &Document{ConversationID: "conv-1", Question: "q2"}))
	require.NoError(t, s.AppendMessage(ctx, &Document{ConversationID: "conv-2", Question: "keep"}))

	require.NoError(t, s.DeleteConversation(ctx, "conv-1"))

	docs, err := s.ListMessages(ctx, "conv-1", 0)
	require.NoError(t, err)
	assert.Empty(t, docs)

	docs, err = s.ListMessages(ctx, "conv-2", 0)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	// Clearing an already-empty conversation is fine.
	assert.NoError(t, s.DeleteConversation(ctx, "conv-1"))
}

func TestSQLiteStore_SchemaSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	s1, err := NewSQLiteStore(path)
	require.NoError(t, err)
	doc := &Document{ConversationID: "conv-1", Question: "persist me"}
	require.NoError(t, s1.AppendMessage(context.Background(), doc))
	require.NoError(t, s1.Close())

	s2, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.GetMessage(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "persist me", got.Question)
}
