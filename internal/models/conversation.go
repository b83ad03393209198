package models

import "time"

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

const (
	MessageContentMaxLength = 2000
	MaxConversationTags     = 5
)

// ConversationTags is the fixed tag vocabulary.
var ConversationTags = []string{"important", "work", "personal", "archive"}

type Message struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

type Conversation struct {
	ID        string
	UserID    string
	Messages  []Message
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}
