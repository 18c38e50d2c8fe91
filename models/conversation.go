package models

// Message roles understood by the answer generator.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one role-tagged entry in a conversation.
type Message struct {
	Role    string
	Content string
}

// Conversation is the ordered message sequence submitted to the answer
// generator for a single request. No history is retained across requests.
type Conversation []Message
