package dto

import (
	"time"

	"github.com/google/uuid"
)

type IngestLawRequest struct {
	Country string `json:"country" validate:"required,len=2"`
	Title   string `json:"title" validate:"required"`
	Source  string `json:"source"`
	Text    string `json:"text" validate:"required"`
}

type LawReferenceResponse struct {
	Id        uuid.UUID `json:"id"`
	Country   string    `json:"country"`
	Title     string    `json:"title"`
	Source    string    `json:"source,omitempty"`
	Chunks    int       `json:"chunks"`
	CreatedAt time.Time `json:"created_at"`
}

type LawSearchResult struct {
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
}
