package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleUser    UserRole = "USER"
	UserRolePremium UserRole = "PREMIUM"
	UserRoleAdmin   UserRole = "ADMIN"
)

type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash *string
	Name         string
	Role         UserRole
	// Country and Language are the defaults applied when a request does not
	// carry its own values.
	Country   *string
	Language  *string
	AvatarURL *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PasswordResetToken struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

type UserProvider struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	ProviderName   string
	ProviderUserId string
	AvatarURL      string
	CreatedAt      time.Time
}
