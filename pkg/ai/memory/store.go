package memory

import (
	"context"

	"github.com/RakhimovY/AIChat/internal/entity"
	"github.com/RakhimovY/AIChat/internal/repository/specification"
	"github.com/RakhimovY/AIChat/internal/repository/unitofwork"
	"github.com/RakhimovY/AIChat/pkg/llm"
)

// DefaultWindowSize bounds how many prior turns feed the model. More context
// slows responses and raises token usage; 15 balances both.
const DefaultWindowSize = 15

// Store is the persisted conversation memory. All turns are written durably;
// Window returns only the newest windowSize of them, oldest-first.
type Store struct {
	uowFactory unitofwork.RepositoryFactory
	windowSize int
}

func NewStore(uowFactory unitofwork.RepositoryFactory, windowSize int) *Store {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	return &Store{
		uowFactory: uowFactory,
		windowSize: windowSize,
	}
}

// Add appends turns to a conversation. Storage failures propagate to the
// caller; nothing is retried here.
func (s *Store) Add(ctx context.Context, conversationId string, messages []llm.Message) error {
	if len(messages) == 0 {
		return nil
	}

	entries := make([]*entity.ChatMemoryEntry, len(messages))
	for i, msg := range messages {
		entries[i] = &entity.ChatMemoryEntry{
			ConversationId: conversationId,
			Role:           entity.MessageRole(msg.Role),
			Content:        msg.Content,
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ChatMemoryRepository().CreateBulk(ctx, entries)
}

// Window loads the most recent turns of a conversation, oldest-first, capped
// at the configured window size.
func (s *Store) Window(ctx context.Context, conversationId string) ([]llm.Message, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	entries, err := uow.ChatMemoryRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: s.windowSize},
	)
	if err != nil {
		return nil, err
	}

	messages := make([]llm.Message, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		messages = append(messages, llm.Message{
			Role:    string(entries[i].Role),
			Content: entries[i].Content,
		})
	}
	return messages, nil
}

// Clear drops all turns of a conversation. Used when a chat is deleted.
func (s *Store) Clear(ctx context.Context, conversationId string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ChatMemoryRepository().DeleteByConversationId(ctx, conversationId)
}
