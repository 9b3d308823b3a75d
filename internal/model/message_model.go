package model

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	Id         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatId     uuid.UUID  `gorm:"type:uuid;not null;index"`
	Role       string     `gorm:"type:varchar(20);not null"`
	Content    string     `gorm:"type:text;not null"`
	Status     string     `gorm:"type:varchar(20);not null;default:'complete'"`
	DocumentId *uuid.UUID `gorm:"type:uuid"`
	CreatedAt  time.Time  `gorm:"autoCreateTime"`
}

func (Message) TableName() string {
	return "messages"
}

type ChatMemoryEntry struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationId string    `gorm:"type:varchar(64);not null;index"`
	Role           string    `gorm:"type:varchar(20);not null"`
	Content        string    `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (ChatMemoryEntry) TableName() string {
	return "chat_memory_entries"
}
