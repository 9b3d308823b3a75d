package entity

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id          uuid.UUID
	ChatId      uuid.UUID
	Name        string
	ContentType string
	Size        int64
	// ObjectKey locates the raw bytes in object storage.
	ObjectKey string
	// ExtractedText is filled by the background extraction worker. Nil means
	// extraction has not run yet and ask-time extraction falls back to the
	// stored object.
	ExtractedText *string
	CreatedAt     time.Time
}
