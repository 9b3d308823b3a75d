package bootstrap

import (
	"context"
	"log"

	"github.com/RakhimovY/AIChat/internal/config"
	"github.com/RakhimovY/AIChat/internal/controller"
	"github.com/RakhimovY/AIChat/internal/handler"
	"github.com/RakhimovY/AIChat/internal/pkg/logger"
	"github.com/RakhimovY/AIChat/internal/pkg/mailer"
	"github.com/RakhimovY/AIChat/internal/repository/implementation"
	"github.com/RakhimovY/AIChat/internal/repository/unitofwork"
	"github.com/RakhimovY/AIChat/internal/service"
	"github.com/RakhimovY/AIChat/internal/websocket"
	"github.com/RakhimovY/AIChat/pkg/ai"
	"github.com/RakhimovY/AIChat/pkg/ai/memory"
	"github.com/RakhimovY/AIChat/pkg/embedding"
	"github.com/RakhimovY/AIChat/pkg/llm/factory"
	"github.com/RakhimovY/AIChat/pkg/storage"

	pktNats "github.com/RakhimovY/AIChat/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	OAuthController        controller.IOAuthController
	UserController         controller.IUserController
	ChatController         controller.IChatController
	DocumentController     controller.IDocumentController
	SubscriptionController controller.ISubscriptionController
	LibraryController      controller.ILibraryController

	// Background services, run by main.go
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// In-process event bus for the document extraction pipeline
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Embedding provider backs the law library search
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaEmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbeddingModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.LLMBaseURL,
		cfg.Ai.LLMAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Object storage for uploaded documents
	objectStorage, err := storage.NewObjectStorage(
		cfg.Storage.Endpoint,
		cfg.Storage.AccessKey,
		cfg.Storage.SecretKey,
		cfg.Storage.Bucket,
		cfg.Storage.UseSSL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize object storage: %v", err)
	}

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	publisherService := service.NewPublisherService(cfg.App.ExtractTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.ExtractTopic,
		uowFactory,
		objectStorage,
	)

	// Services
	userService := service.NewUserService(uowFactory)
	authService := service.NewAuthService(uowFactory, emailService, natsPub, sysLogger)
	oauthService := service.NewOAuthService(uowFactory, sysLogger)
	chatService := service.NewChatService(uowFactory)
	documentService := service.NewDocumentService(uowFactory, objectStorage, publisherService, sysLogger)
	libraryService := service.NewLibraryService(uowFactory, embeddingProvider, sysLogger)
	subscriptionService := service.NewSubscriptionService(uowFactory, emailService, natsPub, sysLogger)

	memoryStore := memory.NewStore(uowFactory, cfg.Ai.MemoryWindowSize)
	invoker := ai.NewInvoker(llmProvider, sysLogger)
	messageService := service.NewMessageService(
		uowFactory,
		chatService,
		documentService,
		libraryService,
		memoryStore,
		invoker,
		sysLogger,
	)

	// Notification system
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}
	notifHandler := handler.NewNotificationHandler(notifService, natsPub, wsHub, wsLogger)

	return &Container{
		AuthController:         controller.NewAuthController(authService),
		OAuthController:        controller.NewOAuthController(oauthService),
		UserController:         controller.NewUserController(userService),
		ChatController:         controller.NewChatController(chatService, messageService, userService, sysLogger),
		DocumentController:     controller.NewDocumentController(documentService, chatService, userService),
		SubscriptionController: controller.NewSubscriptionController(subscriptionService),
		LibraryController:      controller.NewLibraryController(libraryService),

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,

		ConsumerService: consumerService,
	}
}
