// ABOUTME: Snapshot rebuild - raw documents in, canonical ordered message list out
// ABOUTME: Rebuilding from scratch every time makes duplicate deliveries idempotent

package conversation

import (
	"sort"

	"github.com/krishimitra/sahayak/internal/message"
	"github.com/krishimitra/sahayak/internal/store"
)

// Rebuild constructs the canonical ordered message list from a full snapshot
// of raw documents. No state is carried between calls: the same snapshot
// always rebuilds to the same list, regardless of what was delivered before
// or in what order fields were written backend-side.
func Rebuild(docs []*store.Document) []message.ChatMessage {
	sorted := make([]*store.Document, len(docs))
	copy(sorted, docs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})

	msgs := make([]message.ChatMessage, 0, len(sorted))
	for _, doc := range sorted {
		c := message.Canonicalize(doc.Status, doc.Answer)
		msg := message.ChatMessage{
			ID:             doc.ID,
			ConversationID: doc.ConversationID,
			Question:       doc.Question,
			Answer:         doc.Answer,
			Status:         c.State,
			CreatedAt:      doc.CreatedAt,
			UpdatedAt:      doc.UpdatedAt,
		}
		if c.State == message.StatusError {
			msg.ErrorMessage = c.ErrorMessage
		}
		msgs = append(msgs, msg)
	}
	return msgs
}
