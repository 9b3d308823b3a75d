package contract

import (
	"context"

	"github.com/RakhimovY/AIChat/internal/entity"
	"github.com/RakhimovY/AIChat/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	Update(ctx context.Context, chat *entity.Chat) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chat, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chat, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	Update(ctx context.Context, message *entity.Message) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByChatId(ctx context.Context, chatId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	UpdateContent(ctx context.Context, id uuid.UUID, content string, status entity.MessageStatus) error
}

type ChatMemoryRepository interface {
	Create(ctx context.Context, entry *entity.ChatMemoryEntry) error
	CreateBulk(ctx context.Context, entries []*entity.ChatMemoryEntry) error
	DeleteByConversationId(ctx context.Context, conversationId string) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMemoryEntry, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
