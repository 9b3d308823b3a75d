package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Subscription struct {
	Id               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status           string     `gorm:"type:varchar(20);not null;default:'pending'"`
	PlanCode         string     `gorm:"type:varchar(50);not null"`
	Price            float64    `gorm:"type:numeric(12,2);not null;default:0"`
	Currency         string     `gorm:"type:varchar(10);not null;default:'IDR'"`
	ProviderOrderId  string     `gorm:"type:varchar(128);uniqueIndex;not null"`
	CurrentPeriodEnd *time.Time
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

type SubscriptionEvent struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SubscriptionId *uuid.UUID     `gorm:"type:uuid;index"`
	OrderId        string         `gorm:"type:varchar(128);index"`
	EventType      string         `gorm:"type:varchar(64);not null"`
	Payload        datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
}

func (SubscriptionEvent) TableName() string {
	return "subscription_events"
}
