package entity

import (
	"time"

	"github.com/google/uuid"
)

type MessageRole string
type MessageStatus string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"

	// Lifecycle of an assistant message. User messages are created complete.
	MessageStatusPending  MessageStatus = "pending"
	MessageStatusComplete MessageStatus = "complete"
	MessageStatusFailed   MessageStatus = "failed"
)

type Message struct {
	Id         uuid.UUID
	ChatId     uuid.UUID
	Role       MessageRole
	Content    string
	Status     MessageStatus
	DocumentId *uuid.UUID
	CreatedAt  time.Time
}

// ChatMemoryEntry is one turn of the persisted conversation window. The
// ConversationId is the stringified chat id, kept as text so the memory store
// stays decoupled from chat ownership.
type ChatMemoryEntry struct {
	Id             uuid.UUID
	ConversationId string
	Role           MessageRole
	Content        string
	CreatedAt      time.Time
}
