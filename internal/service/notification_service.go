package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/RakhimovY/AIChat/internal/model"
	"github.com/RakhimovY/AIChat/internal/pkg/logger"
	"github.com/RakhimovY/AIChat/internal/repository"
	"github.com/RakhimovY/AIChat/pkg/events"
	pktNats "github.com/RakhimovY/AIChat/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDelivery pushes real-time updates, typically the WebSocket hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
	Broadcast(notification model.Notification)
}

type NotificationService struct {
	repo       repository.NotificationRepository
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(repo repository.NotificationRepository, sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		repo:       repo,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus with a durable consumer.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	switch event.EventType() {
	case "USER_REGISTERED":
		return s.notifyUser(ctx, payload, "USER_REGISTERED",
			"Добро пожаловать!",
			"Ваш аккаунт создан. Задайте свой первый юридический вопрос.")
	case "SUBSCRIPTION_CREATED":
		return s.notifyUser(ctx, payload, "SUBSCRIPTION_CREATED",
			"Оформление подписки",
			"Ваш заказ создан. Завершите оплату, чтобы активировать Premium.")
	case "SYSTEM_BROADCAST":
		// Push-only; broadcasts are not written to individual inboxes.
		title, _ := payload["title"].(string)
		message, _ := payload["message"].(string)
		if s.delivery != nil && title != "" {
			s.delivery.Broadcast(model.Notification{
				ID:        uuid.New(),
				UserID:    uuid.Nil,
				TypeCode:  "SYSTEM_BROADCAST",
				Title:     title,
				Message:   message,
				CreatedAt: time.Now(),
			})
		}
		return nil
	default:
		s.logger.Info("NotificationService", fmt.Sprintf("No handler for event: %s", event.EventType()), nil)
		return nil
	}
}

func (s *NotificationService) notifyUser(ctx context.Context, payload map[string]interface{}, typeCode, title, message string) error {
	rawUserId, _ := payload["user_id"].(string)
	userId, err := uuid.Parse(rawUserId)
	if err != nil {
		s.logger.Warn("NotificationService", "Event payload missing user_id", map[string]interface{}{"type": typeCode})
		return nil
	}

	metaJSON, _ := json.Marshal(payload)
	notif := model.Notification{
		ID:        uuid.New(),
		UserID:    userId,
		TypeCode:  typeCode,
		Title:     title,
		Message:   message,
		Metadata:  datatypes.JSON(metaJSON),
		CreatedAt: time.Now(),
	}

	if err := s.repo.CreateNotification(ctx, &notif); err != nil {
		s.logger.Error("NotificationService", "Failed to persist notification", map[string]interface{}{"error": err.Error()})
		return err
	}

	if s.delivery != nil {
		s.delivery.Send(userId, notif)
	}
	return nil
}

func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.GetNotificationsByUserID(ctx, userID, limit, offset)
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, notificationID)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
