package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubscriptionStatusPending  SubscriptionStatus = "pending"
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusExpired  SubscriptionStatus = "expired"
)

type Subscription struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	Status           SubscriptionStatus
	PlanCode         string
	Price            float64
	Currency         string
	ProviderOrderId  string
	CurrentPeriodEnd *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SubscriptionEvent is the audit trail of webhook notifications. Payload keeps
// the raw provider body for dispute handling.
type SubscriptionEvent struct {
	Id             uuid.UUID
	SubscriptionId *uuid.UUID
	OrderId        string
	EventType      string
	Payload        []byte
	CreatedAt      time.Time
}
