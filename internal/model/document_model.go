package model

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatId        uuid.UUID `gorm:"type:uuid;not null;index"`
	Name          string    `gorm:"type:varchar(512);not null"`
	ContentType   string    `gorm:"type:varchar(255)"`
	Size          int64     `gorm:"not null;default:0"`
	ObjectKey     string    `gorm:"type:text;not null"`
	ExtractedText *string   `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (Document) TableName() string {
	return "documents"
}
