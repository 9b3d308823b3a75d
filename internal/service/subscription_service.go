package service

import (
	"context"
	"crypto/sha512"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/RakhimovY/AIChat/internal/dto"
	"github.com/RakhimovY/AIChat/internal/entity"
	"github.com/RakhimovY/AIChat/internal/pkg/logger"
	"github.com/RakhimovY/AIChat/internal/pkg/mailer"
	"github.com/RakhimovY/AIChat/internal/repository/specification"
	"github.com/RakhimovY/AIChat/internal/repository/unitofwork"
	"github.com/RakhimovY/AIChat/pkg/events"
	pktNats "github.com/RakhimovY/AIChat/pkg/nats"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// plan describes a purchasable tier. The catalog is fixed; prices are in USD.
type plan struct {
	Code   string
	Name   string
	Price  float64
	Months int
}

var planCatalog = map[string]plan{
	"premium_monthly": {Code: "premium_monthly", Name: "Premium Monthly", Price: 9.99, Months: 1},
	"premium_yearly":  {Code: "premium_yearly", Name: "Premium Yearly", Price: 99.99, Months: 12},
}

type ISubscriptionService interface {
	Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	// HandleNotification processes a payment provider webhook. It is
	// idempotent: replayed notifications leave the subscription unchanged.
	HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error
	GetStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error)
	Cancel(ctx context.Context, userId uuid.UUID) error
}

type subscriptionService struct {
	uowFactory     unitofwork.RepositoryFactory
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewSubscriptionService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) ISubscriptionService {
	return &subscriptionService{
		uowFactory:     uowFactory,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *subscriptionService) snapClient() snap.Client {
	var client snap.Client
	env := midtrans.Sandbox
	if os.Getenv("MIDTRANS_IS_PRODUCTION") == "true" {
		env = midtrans.Production
	}
	client.New(os.Getenv("MIDTRANS_SERVER_KEY"), env)
	return client
}

func (s *subscriptionService) Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	selectedPlan, ok := planCatalog[req.PlanCode]
	if !ok {
		return nil, errors.New("unknown plan")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	sub := &entity.Subscription{
		Id:       uuid.New(),
		UserId:   userId,
		Status:   entity.SubscriptionStatusPending,
		PlanCode: selectedPlan.Code,
		Price:    selectedPlan.Price,
		Currency: "USD",
	}
	sub.ProviderOrderId = sub.Id.String()

	if err := uow.SubscriptionRepository().Create(ctx, sub); err != nil {
		return nil, err
	}

	client := s.snapClient()
	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  sub.ProviderOrderId,
			GrossAmt: int64(selectedPlan.Price * 100),
		},
		CreditCard: &snap.CreditCardDetails{Secure: true},
		Callbacks: &snap.Callbacks{
			Finish: fmt.Sprintf("%s/app?payment=success", os.Getenv("FRONTEND_URL")),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: user.Name,
			Email: user.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    selectedPlan.Code,
				Price: int64(selectedPlan.Price * 100),
				Qty:   1,
				Name:  selectedPlan.Name,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := client.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "SUBSCRIPTION_CREATED",
			Data: map[string]interface{}{
				"user_id":   userId,
				"plan_code": selectedPlan.Code,
				"amount":    selectedPlan.Price,
				"currency":  "USD",
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("SubscriptionService", "Failed to publish subscription event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.CheckoutResponse{
		OrderId:     sub.ProviderOrderId,
		RedirectURL: snapResp.RedirectURL,
		Token:       snapResp.Token,
	}, nil
}

func (s *subscriptionService) HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error {
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	if serverKey == "" {
		return errors.New("server configuration error")
	}

	// signature = SHA512(order_id + status_code + gross_amount + server_key)
	signatureInput := req.OrderId + req.StatusCode + req.GrossAmount + serverKey
	expectedSignature := fmt.Sprintf("%x", sha512.Sum512([]byte(signatureInput)))
	if req.SignatureKey != expectedSignature {
		s.logger.Warn("SubscriptionService", "Webhook signature mismatch", map[string]interface{}{"order_id": req.OrderId})
		return errors.New("invalid signature")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.ByProviderOrderID{OrderID: req.OrderId})
	if err != nil {
		return err
	}
	if sub == nil {
		return errors.New("subscription not found")
	}

	payload, _ := json.Marshal(req)
	event := &entity.SubscriptionEvent{
		Id:             uuid.New(),
		SubscriptionId: &sub.Id,
		OrderId:        req.OrderId,
		EventType:      req.TransactionStatus,
		Payload:        payload,
	}
	if err := uow.SubscriptionRepository().CreateEvent(ctx, event); err != nil {
		s.logger.Warn("SubscriptionService", "Failed to record webhook event", map[string]interface{}{"error": err.Error()})
	}

	var newStatus entity.SubscriptionStatus
	switch req.TransactionStatus {
	case "capture", "settlement":
		newStatus = entity.SubscriptionStatusActive
	case "deny", "cancel":
		newStatus = entity.SubscriptionStatusCanceled
	case "expire":
		newStatus = entity.SubscriptionStatusExpired
	case "pending":
		return nil
	default:
		s.logger.Info("SubscriptionService", "Ignoring webhook status", map[string]interface{}{"status": req.TransactionStatus})
		return nil
	}

	if sub.Status == newStatus {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	sub.Status = newStatus
	if newStatus == entity.SubscriptionStatusActive {
		selectedPlan, ok := planCatalog[sub.PlanCode]
		months := 1
		if ok {
			months = selectedPlan.Months
		}
		periodEnd := time.Now().AddDate(0, months, 0)
		sub.CurrentPeriodEnd = &periodEnd
	}

	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return err
	}

	// Premium access follows the subscription state; admins keep their role.
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: sub.UserId})
	if err != nil {
		return err
	}
	if user != nil && user.Role != entity.UserRoleAdmin {
		role := entity.UserRoleUser
		if newStatus == entity.SubscriptionStatusActive {
			role = entity.UserRolePremium
		}
		if user.Role != role {
			if err := uow.UserRepository().UpdateRole(ctx, user.Id, role); err != nil {
				return err
			}
		}
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	if newStatus == entity.SubscriptionStatusActive && user != nil {
		go func(email, planCode string) {
			if err := s.emailService.SendSubscriptionActivated(email, planCode); err != nil {
				s.logger.Warn("SubscriptionService", "Failed to send activation email", map[string]interface{}{"error": err.Error()})
			}
		}(user.Email, sub.PlanCode)
	}

	s.logger.Info("SubscriptionService", "Subscription state updated", map[string]interface{}{
		"subscription_id": sub.Id,
		"status":          string(newStatus),
	})
	return nil
}

func (s *subscriptionService) GetStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	subs, err := uow.SubscriptionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	for _, sub := range subs {
		if sub.Status != entity.SubscriptionStatusActive {
			continue
		}
		if sub.CurrentPeriodEnd != nil && sub.CurrentPeriodEnd.Before(time.Now()) {
			continue
		}
		return &dto.SubscriptionStatusResponse{
			SubscriptionId:   &sub.Id,
			PlanCode:         sub.PlanCode,
			Status:           string(sub.Status),
			IsActive:         true,
			CurrentPeriodEnd: sub.CurrentPeriodEnd,
		}, nil
	}

	return &dto.SubscriptionStatusResponse{
		Status:   string(entity.SubscriptionStatusExpired),
		IsActive: false,
	}, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByStatus{Status: string(entity.SubscriptionStatusActive)},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return err
	}
	if sub == nil {
		return errors.New("no active subscription")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	// Access remains until the paid period ends; only renewal stops.
	if err := uow.SubscriptionRepository().UpdateStatus(ctx, sub.Id, entity.SubscriptionStatusCanceled); err != nil {
		return err
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user != nil && user.Role == entity.UserRolePremium {
		if err := uow.UserRepository().UpdateRole(ctx, userId, entity.UserRoleUser); err != nil {
			return err
		}
	}

	return uow.Commit()
}
