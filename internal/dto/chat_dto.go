package dto

import (
	"time"

	"github.com/google/uuid"
)

// AskRequest submits one user turn. ChatId is optional; empty means a new chat
// is created for the caller. Country and Language are optional overrides of
// the profile defaults.
type AskRequest struct {
	ChatId   *uuid.UUID `json:"chat_id,omitempty"`
	Content  string     `json:"content" validate:"required"`
	Country  string     `json:"country" validate:"omitempty,len=2"`
	Language string     `json:"language" validate:"omitempty,oneof=ru kk en"`
}

type ChatResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type ChatListItemResponse struct {
	Id           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	MessageCount int64      `json:"message_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

type ChatMessageResponse struct {
	Id          uuid.UUID  `json:"id"`
	ChatId      uuid.UUID  `json:"chat_id"`
	Role        string     `json:"role"`
	Content     string     `json:"content"`
	ContentHTML string     `json:"content_html,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	DocumentId  *uuid.UUID `json:"document_id,omitempty"`
	DocumentName string    `json:"document_name,omitempty"`
	DocumentURL  string    `json:"document_url,omitempty"`
}

// StreamEvent is one SSE frame of a streamed assistant reply. Type is one of
// "chunk", "complete", "error", "timeout"; exactly one terminal event closes
// every stream.
type StreamEvent struct {
	Type      string    `json:"type"`
	MessageId uuid.UUID `json:"message_id"`
	ChatId    uuid.UUID `json:"chat_id"`
	Content   string    `json:"content,omitempty"`
}
