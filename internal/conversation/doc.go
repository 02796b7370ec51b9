// Package conversation provides the message lifecycle layer: composing
// questions, ingesting worker answers, and keeping subscribers' views of a
// conversation consistent.
//
// # Snapshot rebuild
//
// The layer never patches message lists incrementally. Every mutation pushes
// the conversation's full current document set through the Feed, and every
// subscriber rebuilds its canonical ordered list from scratch (Rebuild). A
// redelivered or duplicate snapshot therefore produces an identical list,
// and out-of-order field writes within one document (answer before status)
// resolve consistently because reconciliation always runs against the
// latest complete document.
//
// # Lifecycle
//
//	svc := conversation.New(store, feed, logger, 0)
//	sub, _ := svc.Watch(ctx, convID, func(msgs []message.ChatMessage) { ... })
//	defer sub.Cancel()
//	id, err := svc.SendMessage(ctx, convID, "मेरी फसल पर धब्बे हैं")
//
// SendMessage validates before touching the store: an empty or over-length
// question is rejected with ErrEmptyQuestion / ErrQuestionTooLong and no
// backend call happens. There is no optimistic local entry; the new message
// appears when the post-append snapshot arrives.
package conversation
