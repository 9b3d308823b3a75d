package entity

import (
	"time"

	"github.com/google/uuid"
)

// LawReference is an ingested legal text (a constitution, a code, a statute)
// for one jurisdiction.
type LawReference struct {
	Id        uuid.UUID
	Country   string
	Title     string
	Source    string
	CreatedAt time.Time
}

// LawReferenceChunk is one embedded slice of a reference text.
type LawReferenceChunk struct {
	Id             uuid.UUID
	LawReferenceId uuid.UUID
	ChunkIndex     int
	Content        string
	Embedding      []float32
	CreatedAt      time.Time
}

// ScoredLawChunk pairs a chunk with its similarity score from vector search.
type ScoredLawChunk struct {
	Chunk LawReferenceChunk
	Score float64
}
