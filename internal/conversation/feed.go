// ABOUTME: In-memory fan-out of full conversation snapshots to subscribers
// ABOUTME: Every delivery carries the entire current document set, never a diff

package conversation

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/krishimitra/sahayak/internal/store"
)

// subscriberBufferSize is the channel buffer for each subscriber. Snapshots
// supersede each other, so a small buffer is enough.
const subscriberBufferSize = 16

// Feed provides in-memory pub/sub for conversation snapshots. Writers push
// the full current document set after every mutation; subscribers rebuild
// their view from each delivery. Redelivering the same snapshot is harmless
// because rebuilds are deterministic.
type Feed struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]chan []*store.Document // conversationID -> subID -> ch
	logger      *slog.Logger
}

// NewFeed creates a snapshot feed. Pass nil logger for the default.
func NewFeed(logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{
		subscribers: make(map[string]map[string]chan []*store.Document),
		logger:      logger.With("component", "feed"),
	}
}

// Subscribe registers a subscriber for snapshots of the given conversation.
// Returns the delivery channel and a subscription ID for Unsubscribe. The
// subscription is cleaned up automatically when ctx is cancelled.
func (f *Feed) Subscribe(ctx context.Context, conversationID string) (<-chan []*store.Document, string) {
	subID := uuid.New().String()
	ch := make(chan []*store.Document, subscriberBufferSize)

	f.mu.Lock()
	if _, ok := f.subscribers[conversationID]; !ok {
		f.subscribers[conversationID] = make(map[string]chan []*store.Document)
	}
	f.subscribers[conversationID][subID] = ch
	f.mu.Unlock()

	f.logger.Debug("subscriber added", "conversation_id", conversationID, "sub_id", subID)

	go func() {
		<-ctx.Done()
		f.Unsubscribe(conversationID, subID)
	}()

	return ch, subID
}

// Publish delivers a snapshot to every subscriber of the conversation.
// Non-blocking: a subscriber whose channel is full misses this delivery and
// catches up on the next one.
func (f *Feed) Publish(conversationID string, docs []*store.Document) {
	f.mu.RLock()
	subs, ok := f.subscribers[conversationID]
	if !ok || len(subs) == 0 {
		f.mu.RUnlock()
		return
	}
	targets := make([]chan []*store.Document, 0, len(subs))
	for _, ch := range subs {
		targets = append(targets, ch)
	}
	f.mu.RUnlock()

	for _, ch := range targets {
		select {
		case ch <- docs:
		default:
			f.logger.Debug("dropped snapshot for slow subscriber",
				"conversation_id", conversationID, "size", len(docs))
		}
	}
}

// Unsubscribe removes a subscription and closes its channel. Safe to call
// more than once.
func (f *Feed) Unsubscribe(conversationID, subID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	subs, ok := f.subscribers[conversationID]
	if !ok {
		return
	}
	ch, exists := subs[subID]
	if !exists {
		return
	}

	delete(subs, subID)
	close(ch)

	if len(subs) == 0 {
		delete(f.subscribers, conversationID)
	}

	f.logger.Debug("subscriber removed", "conversation_id", conversationID, "sub_id", subID)
}

// Close shuts down the feed and closes all subscriber channels.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for convID, subs := range f.subscribers {
		for subID, ch := range subs {
			close(ch)
			delete(subs, subID)
		}
		delete(f.subscribers, convID)
	}

	f.logger.Debug("feed closed")
}
