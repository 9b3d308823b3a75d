package mapper

import (
	"github.com/RakhimovY/AIChat/internal/entity"
	"github.com/RakhimovY/AIChat/internal/model"

	"gorm.io/datatypes"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) ToEntity(s *model.Subscription) *entity.Subscription {
	if s == nil {
		return nil
	}

	return &entity.Subscription{
		Id:               s.Id,
		UserId:           s.UserId,
		Status:           entity.SubscriptionStatus(s.Status),
		PlanCode:         s.PlanCode,
		Price:            s.Price,
		Currency:         s.Currency,
		ProviderOrderId:  s.ProviderOrderId,
		CurrentPeriodEnd: s.CurrentPeriodEnd,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) ToModel(s *entity.Subscription) *model.Subscription {
	if s == nil {
		return nil
	}

	return &model.Subscription{
		Id:               s.Id,
		UserId:           s.UserId,
		Status:           string(s.Status),
		PlanCode:         s.PlanCode,
		Price:            s.Price,
		Currency:         s.Currency,
		ProviderOrderId:  s.ProviderOrderId,
		CurrentPeriodEnd: s.CurrentPeriodEnd,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) EventToEntity(e *model.SubscriptionEvent) *entity.SubscriptionEvent {
	if e == nil {
		return nil
	}

	return &entity.SubscriptionEvent{
		Id:             e.Id,
		SubscriptionId: e.SubscriptionId,
		OrderId:        e.OrderId,
		EventType:      e.EventType,
		Payload:        []byte(e.Payload),
		CreatedAt:      e.CreatedAt,
	}
}

func (m *SubscriptionMapper) EventToModel(e *entity.SubscriptionEvent) *model.SubscriptionEvent {
	if e == nil {
		return nil
	}

	return &model.SubscriptionEvent{
		Id:             e.Id,
		SubscriptionId: e.SubscriptionId,
		OrderId:        e.OrderId,
		EventType:      e.EventType,
		Payload:        datatypes.JSON(e.Payload),
		CreatedAt:      e.CreatedAt,
	}
}
