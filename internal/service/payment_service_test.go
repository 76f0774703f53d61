package service

import (
	"context"
	"crypto/sha512"
	"fmt"
	"testing"
	"time"

	"edugen-be/internal/dto"
	"edugen-be/internal/entity"
	"edugen-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingInvalidator struct {
	invalidated []uuid.UUID
}

func (r *recordingInvalidator) Invalidate(userId uuid.UUID) {
	r.invalidated = append(r.invalidated, userId)
}

func newPaymentTestService() (*memory.Store, *recordingInvalidator, IPaymentService) {
	store := memory.NewStore()
	factory := memory.NewRepositoryFactory(store)
	gate := &recordingInvalidator{}
	return store, gate, NewPaymentService(factory, nil, gate, nil)
}

func midtransSignature(orderId, statusCode, grossAmount, serverKey string) string {
	return fmt.Sprintf("%x", sha512.Sum512([]byte(orderId+statusCode+grossAmount+serverKey)))
}

func seedPendingSubscription(store *memory.Store, userId uuid.UUID) uuid.UUID {
	planId := uuid.New()
	store.Plans[planId] = &entity.SubscriptionPlan{
		Id:            planId,
		Name:          "Educator Monthly",
		Slug:          "educator-monthly",
		Price:         99000,
		TaxRate:       0.11,
		BillingPeriod: entity.BillingPeriodMonthly,
		IsActive:      true,
	}

	subId := uuid.New()
	store.Subscriptions[subId] = &entity.UserSubscription{
		Id:                 subId,
		UserId:             userId,
		PlanId:             planId,
		Status:             entity.SubscriptionStatusInactive,
		PaymentStatus:      entity.PaymentStatusPending,
		CurrentPeriodStart: time.Now(),
		CurrentPeriodEnd:   time.Now().Add(30 * 24 * time.Hour),
		CreatedAt:          time.Now(),
	}
	return subId
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	t.Setenv("MIDTRANS_SERVER_KEY", "test-server-key")

	store, gate, svc := newPaymentTestService()
	userId := uuid.New()
	subId := seedPendingSubscription(store, userId)

	err := svc.HandleNotification(context.Background(), &dto.MidtransWebhookRequest{
		OrderId:           subId.String(),
		StatusCode:        "200",
		GrossAmount:       "109890.00",
		TransactionStatus: "settlement",
		SignatureKey:      "not-a-real-signature",
	})
	require.Error(t, err)
	assert.Empty(t, gate.invalidated)
	assert.Equal(t, entity.PaymentStatusPending, store.Subscriptions[subId].PaymentStatus)
}

func TestWebhookSettlementActivatesAndInvalidatesGate(t *testing.T) {
	t.Setenv("MIDTRANS_SERVER_KEY", "test-server-key")

	store, gate, svc := newPaymentTestService()
	userId := uuid.New()
	subId := seedPendingSubscription(store, userId)

	err := svc.HandleNotification(context.Background(), &dto.MidtransWebhookRequest{
		OrderId:           subId.String(),
		StatusCode:        "200",
		GrossAmount:       "109890.00",
		TransactionStatus: "settlement",
		TransactionId:     "mt-12345",
		SignatureKey:      midtransSignature(subId.String(), "200", "109890.00", "test-server-key"),
	})
	require.NoError(t, err)

	sub := store.Subscriptions[subId]
	assert.Equal(t, entity.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, entity.PaymentStatusPaid, sub.PaymentStatus)
	require.NotNil(t, sub.MidtransTransactionId)
	assert.Equal(t, "mt-12345", *sub.MidtransTransactionId)

	require.Len(t, gate.invalidated, 1)
	assert.Equal(t, userId, gate.invalidated[0])
}

func TestWebhookDenyMarksFailed(t *testing.T) {
	t.Setenv("MIDTRANS_SERVER_KEY", "test-server-key")

	store, _, svc := newPaymentTestService()
	subId := seedPendingSubscription(store, uuid.New())

	err := svc.HandleNotification(context.Background(), &dto.MidtransWebhookRequest{
		OrderId:           subId.String(),
		StatusCode:        "202",
		GrossAmount:       "109890.00",
		TransactionStatus: "deny",
		SignatureKey:      midtransSignature(subId.String(), "202", "109890.00", "test-server-key"),
	})
	require.NoError(t, err)

	sub := store.Subscriptions[subId]
	assert.Equal(t, entity.SubscriptionStatusInactive, sub.Status)
	assert.Equal(t, entity.PaymentStatusFailed, sub.PaymentStatus)
}

func TestWebhookPendingIsNoop(t *testing.T) {
	t.Setenv("MIDTRANS_SERVER_KEY", "test-server-key")

	store, gate, svc := newPaymentTestService()
	subId := seedPendingSubscription(store, uuid.New())

	err := svc.HandleNotification(context.Background(), &dto.MidtransWebhookRequest{
		OrderId:           subId.String(),
		StatusCode:        "201",
		GrossAmount:       "109890.00",
		TransactionStatus: "pending",
		SignatureKey:      midtransSignature(subId.String(), "201", "109890.00", "test-server-key"),
	})
	require.NoError(t, err)
	assert.Empty(t, gate.invalidated)
	assert.Equal(t, entity.PaymentStatusPending, store.Subscriptions[subId].PaymentStatus)
}

func TestValidateSubscriptionFreeTier(t *testing.T) {
	_, _, svc := newPaymentTestService()

	res, err := svc.ValidateSubscription(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, res.IsValid)
	assert.Equal(t, "free_tier", res.Status)
	assert.False(t, res.RenewalRequired)
}

func TestValidateSubscriptionActive(t *testing.T) {
	store, _, svc := newPaymentTestService()
	userId := uuid.New()
	subId := seedPendingSubscription(store, userId)
	store.Subscriptions[subId].Status = entity.SubscriptionStatusActive
	store.Subscriptions[subId].PaymentStatus = entity.PaymentStatusPaid

	res, err := svc.ValidateSubscription(context.Background(), userId)
	require.NoError(t, err)
	assert.True(t, res.IsValid)
	assert.Equal(t, "active", res.Status)
	assert.Equal(t, "Educator Monthly", res.PlanName)
}

func TestValidateSubscriptionGracePeriod(t *testing.T) {
	store, _, svc := newPaymentTestService()
	userId := uuid.New()
	subId := seedPendingSubscription(store, userId)
	store.Subscriptions[subId].Status = entity.SubscriptionStatusActive
	store.Subscriptions[subId].PaymentStatus = entity.PaymentStatusPaid
	store.Subscriptions[subId].CurrentPeriodEnd = time.Now().Add(-2 * 24 * time.Hour)

	res, err := svc.ValidateSubscription(context.Background(), userId)
	require.NoError(t, err)
	assert.False(t, res.IsValid)
	assert.Equal(t, "grace_period", res.Status)
	assert.True(t, res.RenewalRequired)
}

func TestCancelSubscription(t *testing.T) {
	store, gate, svc := newPaymentTestService()
	userId := uuid.New()
	subId := seedPendingSubscription(store, userId)
	store.Subscriptions[subId].Status = entity.SubscriptionStatusActive

	require.NoError(t, svc.CancelSubscription(context.Background(), userId))
	assert.Equal(t, entity.SubscriptionStatusCanceled, store.Subscriptions[subId].Status)
	require.Len(t, gate.invalidated, 1)
	assert.Equal(t, userId, gate.invalidated[0])
}
