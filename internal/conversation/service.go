// ABOUTME: Conversation service - message composition, history clears, answer ingestion
// ABOUTME: Record first, then publish: every mutation ends with a fresh full snapshot

package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/krishimitra/sahayak/internal/message"
	"github.com/krishimitra/sahayak/internal/store"
)

// DefaultMaxQuestionLen is the question length cap when config doesn't override it.
const DefaultMaxQuestionLen = 500

// Validation errors, rejected before any backend call.
var (
	ErrEmptyQuestion   = errors.New("question is empty")
	ErrQuestionTooLong = errors.New("question exceeds maximum length")
)

// Service is the conversation layer: it validates and records outgoing
// questions, ingests worker answers, and pushes a full snapshot to the feed
// after every mutation. It never synthesizes optimistic entries; subscribers
// see a new message only once the store holds it.
type Service struct {
	store          store.Store
	feed           *Feed
	logger         *slog.Logger
	maxQuestionLen int
}

// New creates a conversation service. maxQuestionLen <= 0 selects the default.
func New(st store.Store, feed *Feed, logger *slog.Logger, maxQuestionLen int) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if maxQuestionLen <= 0 {
		maxQuestionLen = DefaultMaxQuestionLen
	}
	return &Service{
		store:          st,
		feed:           feed,
		logger:         logger.With("component", "conversation"),
		maxQuestionLen: maxQuestionLen,
	}
}

// SendMessage validates and records a new question. The document starts in
// the pending state with an empty answer; the answer worker fills it in
// later through RecordAnswer. Returns the backend-assigned id.
func (s *Service) SendMessage(ctx context.Context, conversationID, question string) (string, error) {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		return "", ErrEmptyQuestion
	}
	if utf8.RuneCountInString(trimmed) > s.maxQuestionLen {
		return "", ErrQuestionTooLong
	}

	doc := &store.Document{
		ConversationID: conversationID,
		Question:       trimmed,
		Answer:         "",
		Status:         string(message.StatusPending),
	}
	if err := s.store.AppendMessage(ctx, doc); err != nil {
		return "", fmt.Errorf("recording question: %w", err)
	}

	s.logger.Debug("question recorded",
		"conversation_id", conversationID,
		"message_id", doc.ID)

	s.publishSnapshot(ctx, conversationID)
	return doc.ID, nil
}

// ClearHistory deletes every message in the conversation and pushes the
// resulting (empty) snapshot.
func (s *Service) ClearHistory(ctx context.Context, conversationID string) error {
	if err := s.store.DeleteConversation(ctx, conversationID); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	s.logger.Info("history cleared", "conversation_id", conversationID)
	s.publishSnapshot(ctx, conversationID)
	return nil
}

// RecordAnswer is the write-through seam for the answer worker: it stores
// the answer and raw status on an existing message and pushes a snapshot.
// The status shape is stored as delivered; reconciliation happens on rebuild.
func (s *Service) RecordAnswer(ctx context.Context, messageID, answer string, status any) error {
	if err := s.store.UpdateAnswer(ctx, messageID, answer, status); err != nil {
		return fmt.Errorf("recording answer: %w", err)
	}
	doc, err := s.store.GetMessage(ctx, messageID)
	if err != nil {
		return fmt.Errorf("loading updated message: %w", err)
	}
	s.publishSnapshot(ctx, doc.ConversationID)
	return nil
}

// History returns the canonical ordered message list for a conversation.
// limit <= 0 means the whole history.
func (s *Service) History(ctx context.Context, conversationID string, limit int) ([]message.ChatMessage, error) {
	docs, err := s.store.ListMessages(ctx, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	return Rebuild(docs), nil
}

// GetMessage returns one canonical message by id.
func (s *Service) GetMessage(ctx context.Context, messageID string) (*message.ChatMessage, error) {
	doc, err := s.store.GetMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	msgs := Rebuild([]*store.Document{doc})
	return &msgs[0], nil
}

// publishSnapshot lists the conversation's current document set and fans it
// out. A listing failure degrades to a missed delivery, never a partial one.
func (s *Service) publishSnapshot(ctx context.Context, conversationID string) {
	docs, err := s.store.ListMessages(ctx, conversationID, 0)
	if err != nil {
		s.logger.Error("snapshot listing failed",
			"conversation_id", conversationID, "error", err)
		return
	}
	s.feed.Publish(conversationID, docs)
}
