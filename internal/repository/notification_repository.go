package repository

import (
	"context"

	"github.com/RakhimovY/AIChat/internal/model"

	"github.com/google/uuid"
)

// NotificationRepository persists user notifications. It sits outside the
// unit of work: notifications are side effects of events, not part of any
// request transaction.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *model.Notification) error
	GetNotificationsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error)
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, notificationID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
}
