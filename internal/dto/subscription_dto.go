package dto

import (
	"time"

	"github.com/google/uuid"
)

type CheckoutRequest struct {
	PlanCode string `json:"plan_code" validate:"required,oneof=premium_monthly premium_yearly"`
}

type CheckoutResponse struct {
	OrderId     string `json:"order_id"`
	RedirectURL string `json:"redirect_url"`
	Token       string `json:"token"`
}

// MidtransWebhookRequest is the payment notification body. Only the fields
// needed for signature validation and state transitions are bound.
type MidtransWebhookRequest struct {
	OrderId           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
}

type SubscriptionStatusResponse struct {
	SubscriptionId   *uuid.UUID `json:"subscription_id,omitempty"`
	PlanCode         string     `json:"plan_code,omitempty"`
	Status           string     `json:"status"`
	IsActive         bool       `json:"is_active"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
}
