package service

import (
	"context"
	"crypto/sha512"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/RakhimovY/AIChat/internal/dto"
	"github.com/RakhimovY/AIChat/internal/entity"
	"github.com/RakhimovY/AIChat/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[uuid.UUID]*entity.User{}}
}

func (r *stubUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *user
	r.users[user.Id] = &stored
	return nil
}

func (r *stubUserRepo) Update(ctx context.Context, user *entity.User) error {
	return r.Create(ctx, user)
}

func (r *stubUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range specs {
		if byId, ok := s.(specification.ByID); ok {
			if user, found := r.users[byId.ID]; found {
				copied := *user
				return &copied, nil
			}
		}
	}
	return nil, nil
}

func (r *stubUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	return nil, nil
}

func (r *stubUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *stubUserRepo) UpdateRole(ctx context.Context, userId uuid.UUID, role entity.UserRole) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userId]; ok {
		user.Role = role
	}
	return nil
}

func (r *stubUserRepo) UpdatePassword(ctx context.Context, userId uuid.UUID, hash string) error {
	return nil
}

func (r *stubUserRepo) CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error {
	return nil
}

func (r *stubUserRepo) FindPasswordResetToken(ctx context.Context, specs ...specification.Specification) (*entity.PasswordResetToken, error) {
	return nil, nil
}

func (r *stubUserRepo) MarkTokenUsed(ctx context.Context, id uuid.UUID) error { return nil }

func (r *stubUserRepo) SaveUserProvider(ctx context.Context, provider *entity.UserProvider) error {
	return nil
}

func (r *stubUserRepo) FindUserProvider(ctx context.Context, specs ...specification.Specification) (*entity.UserProvider, error) {
	return nil, nil
}

type stubSubscriptionRepo struct {
	mu     sync.Mutex
	subs   map[uuid.UUID]*entity.Subscription
	events []*entity.SubscriptionEvent
}

func newStubSubscriptionRepo() *stubSubscriptionRepo {
	return &stubSubscriptionRepo{subs: map[uuid.UUID]*entity.Subscription{}}
}

func (r *stubSubscriptionRepo) Create(ctx context.Context, subscription *entity.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *subscription
	r.subs[subscription.Id] = &stored
	return nil
}

func (r *stubSubscriptionRepo) Update(ctx context.Context, subscription *entity.Subscription) error {
	return r.Create(ctx, subscription)
}

func (r *stubSubscriptionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, id)
	return nil
}

func (r *stubSubscriptionRepo) match(sub *entity.Subscription, specs ...specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByProviderOrderID:
			if sub.ProviderOrderId != spec.OrderID {
				return false
			}
		case specification.UserOwnedBy:
			if sub.UserId != spec.UserID {
				return false
			}
		case specification.ByStatus:
			if string(sub.Status) != spec.Status {
				return false
			}
		}
	}
	return true
}

func (r *stubSubscriptionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sub := range r.subs {
		if r.match(sub, specs...) {
			copied := *sub
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *stubSubscriptionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Subscription
	for _, sub := range r.subs {
		if r.match(sub, specs...) {
			copied := *sub
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *stubSubscriptionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	found, _ := r.FindAll(ctx, specs...)
	return int64(len(found)), nil
}

func (r *stubSubscriptionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.SubscriptionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sub, ok := r.subs[id]; ok {
		sub.Status = status
	}
	return nil
}

func (r *stubSubscriptionRepo) CreateEvent(ctx context.Context, event *entity.SubscriptionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *event
	r.events = append(r.events, &stored)
	return nil
}

func (r *stubSubscriptionRepo) FindEvents(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.SubscriptionEvent(nil), r.events...), nil
}

type stubEmailService struct {
	mu        sync.Mutex
	activated []string
}

func (s *stubEmailService) SendResetToken(toEmail, token string) error { return nil }

func (s *stubEmailService) SendSubscriptionActivated(toEmail, planCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activated = append(s.activated, toEmail)
	return nil
}

type subscriptionFixture struct {
	service ISubscriptionService
	users   *stubUserRepo
	subs    *stubSubscriptionRepo
	email   *stubEmailService
}

func newSubscriptionFixture(t *testing.T) *subscriptionFixture {
	t.Helper()
	t.Setenv("MIDTRANS_SERVER_KEY", "test-server-key")

	users := newStubUserRepo()
	subs := newStubSubscriptionRepo()
	email := &stubEmailService{}

	uow := &stubUow{
		chatRepo:    newStubChatRepo(),
		messageRepo: &stubMessageRepo{clock: time.Now()},
		memoryRepo:  &stubMemoryRepo{clock: time.Now()},
		userRepo:    users,
		subRepo:     subs,
	}

	svc := NewSubscriptionService(stubFactory{uow: uow}, email, nil, nopLogger{})
	return &subscriptionFixture{service: svc, users: users, subs: subs, email: email}
}

func signWebhook(req *dto.MidtransWebhookRequest, serverKey string) {
	input := req.OrderId + req.StatusCode + req.GrossAmount + serverKey
	req.SignatureKey = fmt.Sprintf("%x", sha512.Sum512([]byte(input)))
}

func pendingSubscription(t *testing.T, fx *subscriptionFixture) (*entity.User, *entity.Subscription) {
	t.Helper()
	ctx := context.Background()

	user := &entity.User{Id: uuid.New(), Email: "buyer@example.com", Name: "Buyer", Role: entity.UserRoleUser}
	require.NoError(t, fx.users.Create(ctx, user))

	sub := &entity.Subscription{
		Id:       uuid.New(),
		UserId:   user.Id,
		Status:   entity.SubscriptionStatusPending,
		PlanCode: "premium_monthly",
		Price:    9.99,
		Currency: "USD",
	}
	sub.ProviderOrderId = sub.Id.String()
	require.NoError(t, fx.subs.Create(ctx, sub))
	return user, sub
}

func TestHandleNotificationRejectsBadSignature(t *testing.T) {
	fx := newSubscriptionFixture(t)
	_, sub := pendingSubscription(t, fx)

	req := &dto.MidtransWebhookRequest{
		OrderId:           sub.ProviderOrderId,
		TransactionStatus: "settlement",
		StatusCode:        "200",
		GrossAmount:       "999.00",
		SignatureKey:      "forged",
	}

	err := fx.service.HandleNotification(context.Background(), req)
	assert.Error(t, err)
	assert.Equal(t, entity.SubscriptionStatusPending, fx.subs.subs[sub.Id].Status)
}

func TestHandleNotificationSettlementActivates(t *testing.T) {
	fx := newSubscriptionFixture(t)
	user, sub := pendingSubscription(t, fx)

	req := &dto.MidtransWebhookRequest{
		OrderId:           sub.ProviderOrderId,
		TransactionStatus: "settlement",
		StatusCode:        "200",
		GrossAmount:       "999.00",
	}
	signWebhook(req, "test-server-key")

	require.NoError(t, fx.service.HandleNotification(context.Background(), req))

	updated := fx.subs.subs[sub.Id]
	assert.Equal(t, entity.SubscriptionStatusActive, updated.Status)
	require.NotNil(t, updated.CurrentPeriodEnd)
	assert.True(t, updated.CurrentPeriodEnd.After(time.Now()))

	assert.Equal(t, entity.UserRolePremium, fx.users.users[user.Id].Role)

	// Audit trail keeps the notification.
	require.Len(t, fx.subs.events, 1)
	assert.Equal(t, "settlement", fx.subs.events[0].EventType)
}

func TestHandleNotificationReplayIsIdempotent(t *testing.T) {
	fx := newSubscriptionFixture(t)
	_, sub := pendingSubscription(t, fx)

	req := &dto.MidtransWebhookRequest{
		OrderId:           sub.ProviderOrderId,
		TransactionStatus: "settlement",
		StatusCode:        "200",
		GrossAmount:       "999.00",
	}
	signWebhook(req, "test-server-key")

	require.NoError(t, fx.service.HandleNotification(context.Background(), req))
	firstPeriodEnd := *fx.subs.subs[sub.Id].CurrentPeriodEnd

	require.NoError(t, fx.service.HandleNotification(context.Background(), req))
	assert.Equal(t, firstPeriodEnd, *fx.subs.subs[sub.Id].CurrentPeriodEnd)
}

func TestHandleNotificationExpireDemotesRole(t *testing.T) {
	fx := newSubscriptionFixture(t)
	user, sub := pendingSubscription(t, fx)

	activate := &dto.MidtransWebhookRequest{
		OrderId: sub.ProviderOrderId, TransactionStatus: "settlement", StatusCode: "200", GrossAmount: "999.00",
	}
	signWebhook(activate, "test-server-key")
	require.NoError(t, fx.service.HandleNotification(context.Background(), activate))

	expire := &dto.MidtransWebhookRequest{
		OrderId: sub.ProviderOrderId, TransactionStatus: "expire", StatusCode: "202", GrossAmount: "999.00",
	}
	signWebhook(expire, "test-server-key")
	require.NoError(t, fx.service.HandleNotification(context.Background(), expire))

	assert.Equal(t, entity.SubscriptionStatusExpired, fx.subs.subs[sub.Id].Status)
	assert.Equal(t, entity.UserRoleUser, fx.users.users[user.Id].Role)
}

func TestHandleNotificationAdminRoleUntouched(t *testing.T) {
	fx := newSubscriptionFixture(t)
	user, sub := pendingSubscription(t, fx)
	fx.users.users[user.Id].Role = entity.UserRoleAdmin

	req := &dto.MidtransWebhookRequest{
		OrderId: sub.ProviderOrderId, TransactionStatus: "settlement", StatusCode: "200", GrossAmount: "999.00",
	}
	signWebhook(req, "test-server-key")
	require.NoError(t, fx.service.HandleNotification(context.Background(), req))

	assert.Equal(t, entity.UserRoleAdmin, fx.users.users[user.Id].Role)
	assert.Equal(t, entity.SubscriptionStatusActive, fx.subs.subs[sub.Id].Status)
}

func TestGetStatusWithoutSubscription(t *testing.T) {
	fx := newSubscriptionFixture(t)

	status, err := fx.service.GetStatus(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, status.IsActive)
	assert.Equal(t, string(entity.SubscriptionStatusExpired), status.Status)
}

func TestCancelKeepsAccessUntilPeriodEnd(t *testing.T) {
	fx := newSubscriptionFixture(t)
	user, sub := pendingSubscription(t, fx)

	activate := &dto.MidtransWebhookRequest{
		OrderId: sub.ProviderOrderId, TransactionStatus: "settlement", StatusCode: "200", GrossAmount: "999.00",
	}
	signWebhook(activate, "test-server-key")
	require.NoError(t, fx.service.HandleNotification(context.Background(), activate))

	require.NoError(t, fx.service.Cancel(context.Background(), user.Id))

	assert.Equal(t, entity.SubscriptionStatusCanceled, fx.subs.subs[sub.Id].Status)
	assert.Equal(t, entity.UserRoleUser, fx.users.users[user.Id].Role)
}
