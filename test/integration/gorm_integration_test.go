package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/RakhimovY/AIChat/internal/entity"
	"github.com/RakhimovY/AIChat/internal/repository/specification"
	"github.com/RakhimovY/AIChat/internal/repository/unitofwork"
	"github.com/RakhimovY/AIChat/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.ChatRepository())
	assert.NotNil(t, uow.SubscriptionRepository())

	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Transactional Chat With Messages", func(t *testing.T) {
		ctx := context.Background()

		user := &entity.User{
			Id:    uuid.New(),
			Email: "test-integration-" + uuid.New().String() + "@example.com",
			Name:  "Integration Test User",
			Role:  entity.UserRoleUser,
		}
		err := uow.UserRepository().Create(ctx, user)
		assert.NoError(t, err)

		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		chat := &entity.Chat{
			Id:     uuid.New(),
			UserId: user.Id,
			Title:  "Integration chat",
		}
		err = uow.ChatRepository().Create(ctx, chat)
		assert.NoError(t, err)

		msg := &entity.Message{
			Id:      uuid.New(),
			ChatId:  chat.Id,
			Role:    entity.MessageRoleUser,
			Content: "Test question",
			Status:  entity.MessageStatusComplete,
		}
		err = uow.MessageRepository().Create(ctx, msg)
		assert.NoError(t, err)

		entries := []*entity.ChatMemoryEntry{
			{ConversationId: chat.Id.String(), Role: entity.MessageRoleUser, Content: "Test question"},
		}
		err = uow.ChatMemoryRepository().CreateBulk(ctx, entries)
		assert.NoError(t, err)

		count, err := uow.MessageRepository().Count(ctx, specification.ByChatID{ChatID: chat.Id})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), count)

		// Rolled back by the deferred call; nothing persists past the test.
	})
}
