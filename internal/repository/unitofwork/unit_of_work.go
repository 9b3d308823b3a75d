package unitofwork

import (
	"context"

	"github.com/RakhimovY/AIChat/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ChatRepository() contract.ChatRepository
	MessageRepository() contract.MessageRepository
	ChatMemoryRepository() contract.ChatMemoryRepository
	DocumentRepository() contract.DocumentRepository
	SubscriptionRepository() contract.SubscriptionRepository
	LawReferenceRepository() contract.LawReferenceRepository
}
