// ABOUTME: Core chat message types and the canonical status enum
// ABOUTME: Everything downstream of the store speaks these types, never raw documents

package message

import "time"

// Status is the canonical processing state of a chat message.
type Status string

const (
	// StatusPending means the question was recorded but no worker picked it up yet.
	StatusPending Status = "pending"
	// StatusProcessing means a worker is generating the answer.
	StatusProcessing Status = "processing"
	// StatusCompleted means the answer field holds the final text.
	StatusCompleted Status = "completed"
	// StatusError means the worker failed; ErrorMessage carries the detail.
	StatusError Status = "error"
)

// ChatMessage is one question/answer turn in a conversation, with its
// backend status already reconciled to the canonical enum.
type ChatMessage struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Question       string    `json:"question"`
	Answer         string    `json:"answer"`
	Status         Status    `json:"status"`
	ErrorMessage   string    `json:"errorMessage,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
