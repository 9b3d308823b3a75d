package mapper

import (
	"time"

	"github.com/RakhimovY/AIChat/internal/entity"
	"github.com/RakhimovY/AIChat/internal/model"

	"gorm.io/gorm"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ChatToEntity(c *model.Chat) *entity.Chat {
	if c == nil {
		return nil
	}

	var deletedAt *time.Time
	if c.DeletedAt.Valid {
		t := c.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.Chat{
		Id:        c.Id,
		UserId:    c.UserId,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: c.DeletedAt.Valid,
	}
}

func (m *ChatMapper) ChatToModel(c *entity.Chat) *model.Chat {
	if c == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if c.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *c.DeletedAt, Valid: true}
	} else if c.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.Chat{
		Id:        c.Id,
		UserId:    c.UserId,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *ChatMapper) MessageToEntity(msg *model.Message) *entity.Message {
	if msg == nil {
		return nil
	}

	return &entity.Message{
		Id:         msg.Id,
		ChatId:     msg.ChatId,
		Role:       entity.MessageRole(msg.Role),
		Content:    msg.Content,
		Status:     entity.MessageStatus(msg.Status),
		DocumentId: msg.DocumentId,
		CreatedAt:  msg.CreatedAt,
	}
}

func (m *ChatMapper) MessageToModel(msg *entity.Message) *model.Message {
	if msg == nil {
		return nil
	}

	return &model.Message{
		Id:         msg.Id,
		ChatId:     msg.ChatId,
		Role:       string(msg.Role),
		Content:    msg.Content,
		Status:     string(msg.Status),
		DocumentId: msg.DocumentId,
		CreatedAt:  msg.CreatedAt,
	}
}

func (m *ChatMapper) MemoryEntryToEntity(e *model.ChatMemoryEntry) *entity.ChatMemoryEntry {
	if e == nil {
		return nil
	}

	return &entity.ChatMemoryEntry{
		Id:             e.Id,
		ConversationId: e.ConversationId,
		Role:           entity.MessageRole(e.Role),
		Content:        e.Content,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *ChatMapper) MemoryEntryToModel(e *entity.ChatMemoryEntry) *model.ChatMemoryEntry {
	if e == nil {
		return nil
	}

	return &model.ChatMemoryEntry{
		Id:             e.Id,
		ConversationId: e.ConversationId,
		Role:           string(e.Role),
		Content:        e.Content,
		CreatedAt:      e.CreatedAt,
	}
}
