package dto

import (
	"time"

	"github.com/google/uuid"
)

// PublishExtractDocumentMessage is the payload of the background extraction
// job queued after an upload.
type PublishExtractDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}

type DocumentResponse struct {
	Id          uuid.UUID `json:"id"`
	ChatId      uuid.UUID `json:"chat_id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	URL         string    `json:"url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
