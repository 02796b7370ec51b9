// ABOUTME: Subscription handle delivering rebuilt message lists to an observer
// ABOUTME: Cancel is idempotent and the callback never fires after Cancel returns

package conversation

import (
	"context"
	"fmt"
	"sync"

	"github.com/krishimitra/sahayak/internal/message"
)

// Subscription is a live view over one conversation. The observer callback
// receives the full rebuilt message list on every snapshot delivery,
// serialized on a single goroutine.
type Subscription struct {
	mu       sync.Mutex
	closed   bool
	teardown func()
}

// Cancel stops the subscription. It is idempotent, and once it returns the
// observer callback will not be invoked again: Cancel waits out any
// in-flight delivery before returning.
func (s *Subscription) Cancel() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	teardown := s.teardown
	s.mu.Unlock()

	if teardown != nil {
		teardown()
	}
}

// Watch subscribes an observer to a conversation. The current message list
// is delivered immediately, then again after every backend mutation. Each
// delivery is a complete rebuild; the observer must not assume any relation
// to previous deliveries. The returned Subscription must be cancelled when
// the observer goes away; cancelling ctx tears the subscription down too.
func (s *Service) Watch(ctx context.Context, conversationID string, onUpdate func([]message.ChatMessage)) (*Subscription, error) {
	initial, err := s.store.ListMessages(ctx, conversationID, 0)
	if err != nil {
		return nil, fmt.Errorf("loading initial snapshot: %w", err)
	}

	ch, subID := s.feed.Subscribe(ctx, conversationID)

	sub := &Subscription{}
	sub.teardown = func() {
		s.feed.Unsubscribe(conversationID, subID)
	}

	deliver := func(msgs []message.ChatMessage) {
		sub.mu.Lock()
		defer sub.mu.Unlock()
		if sub.closed {
			return
		}
		onUpdate(msgs)
	}

	go func() {
		deliver(Rebuild(initial))
		for docs := range ch {
			deliver(Rebuild(docs))
		}
	}()

	return sub, nil
}
