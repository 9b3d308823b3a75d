package service

import (
	"context"

	"github.com/RakhimovY/AIChat/internal/dto"
	"github.com/RakhimovY/AIChat/internal/entity"
	"github.com/RakhimovY/AIChat/internal/localization"
	"github.com/RakhimovY/AIChat/internal/repository/specification"
	"github.com/RakhimovY/AIChat/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IChatService interface {
	CreateChat(ctx context.Context, user *entity.User, language string) (*entity.Chat, error)
	GetChatById(ctx context.Context, id uuid.UUID) (*entity.Chat, error)
	GetUserChats(ctx context.Context, userId uuid.UUID) ([]dto.ChatListItemResponse, error)
	DeleteChat(ctx context.Context, userId, chatId uuid.UUID) error
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewChatService(uowFactory unitofwork.RepositoryFactory) IChatService {
	return &chatService{uowFactory: uowFactory}
}

// CreateChat opens a new chat with the localized placeholder title. The title
// may later be replaced once, derived from the first user message.
func (s *chatService) CreateChat(ctx context.Context, user *entity.User, language string) (*entity.Chat, error) {
	if language == "" && user.Language != nil {
		language = *user.Language
	}

	chat := &entity.Chat{
		Id:     uuid.New(),
		UserId: user.Id,
		Title:  localization.DefaultTitle(language),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatRepository().Create(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *chatService) GetChatById(ctx context.Context, id uuid.UUID) (*entity.Chat, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}
	return chat, nil
}

func (s *chatService) GetUserChats(ctx context.Context, userId uuid.UUID) ([]dto.ChatListItemResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chats, err := uow.ChatRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ChatListItemResponse, 0, len(chats))
	for _, chat := range chats {
		count, err := uow.MessageRepository().Count(ctx, specification.ByChatID{ChatID: chat.Id})
		if err != nil {
			return nil, err
		}
		items = append(items, dto.ChatListItemResponse{
			Id:           chat.Id,
			Title:        chat.Title,
			MessageCount: count,
			CreatedAt:    chat.CreatedAt,
			UpdatedAt:    chat.UpdatedAt,
		})
	}
	return items, nil
}

// DeleteChat removes the chat with its messages, memory window and document
// rows in one transaction.
func (s *chatService) DeleteChat(ctx context.Context, userId, chatId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: chatId})
	if err != nil {
		return err
	}
	if chat == nil {
		return ErrChatNotFound
	}
	if chat.UserId != userId {
		return ErrForbidden
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.MessageRepository().DeleteByChatId(ctx, chatId); err != nil {
		return err
	}
	if err := uow.DocumentRepository().DeleteByChatId(ctx, chatId); err != nil {
		return err
	}
	if err := uow.ChatMemoryRepository().DeleteByConversationId(ctx, chatId.String()); err != nil {
		return err
	}
	if err := uow.ChatRepository().Delete(ctx, chatId); err != nil {
		return err
	}

	return uow.Commit()
}
