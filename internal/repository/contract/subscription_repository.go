package contract

import (
	"context"

	"github.com/RakhimovY/AIChat/internal/entity"
	"github.com/RakhimovY/AIChat/internal/repository/specification"

	"github.com/google/uuid"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *entity.Subscription) error
	Update(ctx context.Context, subscription *entity.Subscription) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.SubscriptionStatus) error

	// Webhook audit trail
	CreateEvent(ctx context.Context, event *entity.SubscriptionEvent) error
	FindEvents(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionEvent, error)
}
