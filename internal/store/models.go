package store

import "time"

// Turn roles. Anything that is not a user turn is treated as assistant
// output when replaying history to the model.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one role-tagged message within a Conversation. Turns are
// append-only; they are never edited or removed.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is a persisted, ordered sequence of Turns under one
// identifier, plus the retrieval context of the most recent exchange.
type Conversation struct {
	ID        string    `json:"conversation_id"`
	Turns     []Turn    `json:"messages"`
	Context   string    `json:"context"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConversationSummary is the listing view: identifier, first-message
// preview, and timestamps.
type ConversationSummary struct {
	ID        string    `json:"conversation_id"`
	Preview   string    `json:"preview"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
