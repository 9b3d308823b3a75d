package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type LawReference struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Country   string    `gorm:"type:varchar(2);not null;index"`
	Title     string    `gorm:"type:varchar(512);not null"`
	Source    string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (LawReference) TableName() string {
	return "law_references"
}

type LawReferenceChunk struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LawReferenceId uuid.UUID       `gorm:"type:uuid;not null;index"`
	ChunkIndex     int             `gorm:"default:0"`
	Content        string          `gorm:"type:text;not null"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // text-embedding-004 dimensionality
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (LawReferenceChunk) TableName() string {
	return "law_reference_chunks"
}
