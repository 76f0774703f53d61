// FILE: internal/service/payment_service.go
package service

import (
	"context"
	"crypto/sha512"
	"errors"
	"fmt"
	"os"
	"time"

	"edugen-be/internal/dto"
	"edugen-be/internal/entity"
	"edugen-be/internal/pkg/mailer"
	"edugen-be/internal/repository/specification"
	"edugen-be/internal/repository/unitofwork"

	"edugen-be/pkg/events"
	pktNats "edugen-be/pkg/nats" // Renamed to avoid collision

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// IPlanGateInvalidator drops any cached plan-gate decision for a user after
// their subscription state changes.
type IPlanGateInvalidator interface {
	Invalidate(userId uuid.UUID)
}

type IPaymentService interface {
	GetPlans(ctx context.Context) ([]*dto.PlanResponse, error)
	GetOrderSummary(ctx context.Context, planId uuid.UUID) (*dto.OrderSummaryResponse, error)
	CreateSubscription(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error
	GetSubscriptionStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error)
	CancelSubscription(ctx context.Context, userId uuid.UUID) error
	ValidateSubscription(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionValidationResponse, error)
}

type paymentService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	gateCache      IPlanGateInvalidator
	mailer         mailer.IEmailService
}

func NewPaymentService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher, gateCache IPlanGateInvalidator, emailService mailer.IEmailService) IPaymentService {
	return &paymentService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		gateCache:      gateCache,
		mailer:         emailService,
	}
}

func (s *paymentService) GetPlans(ctx context.Context) ([]*dto.PlanResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	plans, err := uow.SubscriptionRepository().FindAllPlans(ctx,
		specification.Filter("is_active", true),
		specification.OrderBy{Field: "sort_order"},
	)
	if err != nil {
		return nil, err
	}

	var res []*dto.PlanResponse
	for _, p := range plans {
		features := []string{"Content Generation", "Folder Organization"}
		if p.SemanticSearchEnabled {
			features = append(features, "Semantic Search")
		}
		if p.GenerationDailyLimit == -1 {
			features = append(features, "Unlimited Daily Generations")
		}

		res = append(res, &dto.PlanResponse{
			Id:          p.Id,
			Name:        p.Name,
			Slug:        p.Slug,
			Price:       p.Price,
			Description: p.Description,
			Features:    features,
		})
	}
	return res, nil
}

func (s *paymentService) GetOrderSummary(ctx context.Context, planId uuid.UUID) (*dto.OrderSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: planId})
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, errors.New("plan not found")
	}

	subtotal := plan.Price
	tax := subtotal * plan.TaxRate
	total := subtotal + tax

	billingPeriod := "month"
	if plan.BillingPeriod == entity.BillingPeriodYearly {
		billingPeriod = "year"
	}

	return &dto.OrderSummaryResponse{
		PlanName:      plan.Name,
		BillingPeriod: billingPeriod,
		PricePerUnit:  fmt.Sprintf("$%.2f/%s", plan.Price, billingPeriod),
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         total,
		Currency:      "USD",
	}, nil
}

func (s *paymentService) CreateSubscription(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: req.PlanId})
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, errors.New("plan not found")
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	billingId := uuid.New()
	billingAddr := &entity.BillingAddress{
		Id:           billingId,
		UserId:       userId,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		IsDefault:    true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	subId := uuid.New()
	sub := &entity.UserSubscription{
		Id:                 subId,
		UserId:             userId,
		PlanId:             plan.Id,
		BillingAddressId:   &billingId,
		Status:             entity.SubscriptionStatusInactive,
		PaymentStatus:      entity.PaymentStatusPending,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
		CurrentPeriodStart: time.Now(),
		CurrentPeriodEnd:   time.Now().AddDate(0, 1, 0),
	}

	if plan.BillingPeriod == entity.BillingPeriodYearly {
		sub.CurrentPeriodEnd = time.Now().AddDate(1, 0, 0)
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.BillingRepository().Create(ctx, billingAddr); err != nil {
		return nil, fmt.Errorf("failed to save billing address: %v", err)
	}

	if err := uow.SubscriptionRepository().CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// External Midtrans call stays outside the DB transaction.
	var sClient snap.Client
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	env := midtrans.Sandbox
	if os.Getenv("MIDTRANS_IS_PRODUCTION") == "true" {
		env = midtrans.Production
	}
	sClient.New(serverKey, env)

	frontendURL := os.Getenv("FRONTEND_URL")
	finishRedirectURL := fmt.Sprintf("%s/app?payment=success", frontendURL)

	finalAmount := int64(plan.Price + (plan.Price * plan.TaxRate))

	midtransPostalCode := req.PostalCode
	if len(midtransPostalCode) > 5 {
		midtransPostalCode = midtransPostalCode[:5]
	}

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  subId.String(),
			GrossAmt: finalAmount,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: finishRedirectURL,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.FirstName,
			LName: req.LastName,
			Email: req.Email,
			Phone: req.Phone,
			BillAddr: &midtrans.CustomerAddress{
				FName:       req.FirstName,
				LName:       req.LastName,
				Phone:       req.Phone,
				Address:     req.AddressLine1,
				City:        req.City,
				Postcode:    midtransPostalCode,
				CountryCode: "IDN",
			},
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    plan.Id.String(),
				Price: int64(plan.Price),
				Qty:   1,
				Name:  plan.Name,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := sClient.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "SUBSCRIPTION_CREATED",
			Data: map[string]interface{}{
				"plan_name":   plan.Name,
				"user_id":     userId,
				"full_name":   user.FullName,
				"plan_id":     plan.Id,
				"amount":      plan.Price,
				"currency":    "USD",
				"occurred_at": time.Now(),
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish SUBSCRIPTION_CREATED event: %v\n", err)
		}
	}

	return &dto.CheckoutResponse{
		SubscriptionId:  subId,
		SnapToken:       snapResp.Token,
		SnapRedirectUrl: snapResp.RedirectURL,
	}, nil
}

func (s *paymentService) HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error {
	fmt.Printf("[WEBHOOK] OrderId: %s | Status: %s\n", req.OrderId, req.TransactionStatus)

	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	if serverKey == "" {
		return fmt.Errorf("server configuration error")
	}

	// Midtrans signature = SHA512(order_id + status_code + gross_amount + server_key)
	signatureInput := req.OrderId + req.StatusCode + req.GrossAmount + serverKey
	expectedSignature := fmt.Sprintf("%x", sha512.Sum512([]byte(signatureInput)))

	if req.SignatureKey != expectedSignature {
		fmt.Printf("[WEBHOOK ERROR] Signature mismatch for OrderId=%s\n", req.OrderId)
		return fmt.Errorf("invalid signature")
	}

	subId, err := uuid.Parse(req.OrderId)
	if err != nil {
		return fmt.Errorf("invalid order id format")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ByID{ID: subId})
	if err != nil {
		return err
	}
	if sub == nil {
		return fmt.Errorf("subscription not found")
	}

	var newStatus entity.SubscriptionStatus
	var newPaymentStatus entity.PaymentStatus

	switch req.TransactionStatus {
	case "capture", "settlement":
		newStatus = entity.SubscriptionStatusActive
		newPaymentStatus = entity.PaymentStatusPaid
	case "deny", "cancel", "expire":
		newStatus = entity.SubscriptionStatusInactive
		newPaymentStatus = entity.PaymentStatusFailed
	case "pending":
		return nil
	default:
		fmt.Printf("[WEBHOOK] Unknown status '%s' - no action taken\n", req.TransactionStatus)
		return nil
	}

	if sub.Status == newStatus && sub.PaymentStatus == newPaymentStatus {
		return nil
	}

	fmt.Printf("[WEBHOOK] State transition: Status(%s->%s), PaymentStatus(%s->%s)\n",
		sub.Status, newStatus, sub.PaymentStatus, newPaymentStatus)

	sub.Status = newStatus
	sub.PaymentStatus = newPaymentStatus
	if req.TransactionId != "" {
		sub.MidtransTransactionId = &req.TransactionId
	}

	if err := uow.SubscriptionRepository().UpdateSubscription(ctx, sub); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	if s.gateCache != nil {
		s.gateCache.Invalidate(sub.UserId)
	}

	if newPaymentStatus == entity.PaymentStatusPaid {
		s.sendReceipt(ctx, sub)
	}
	return nil
}

func (s *paymentService) sendReceipt(ctx context.Context, sub *entity.UserSubscription) {
	if s.mailer == nil {
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: sub.UserId})
	if err != nil || user == nil {
		fmt.Printf("[WARN] Receipt skipped, user lookup failed: %v\n", err)
		return
	}
	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: sub.PlanId})
	if err != nil || plan == nil {
		fmt.Printf("[WARN] Receipt skipped, plan lookup failed: %v\n", err)
		return
	}

	amount := plan.Price + (plan.Price * plan.TaxRate)
	go func() {
		if err := s.mailer.SendReceipt(user.Email, plan.Name, amount); err != nil {
			fmt.Printf("[WARN] Failed to send receipt email: %v\n", err)
		}
	}()
}

func (s *paymentService) GetSubscriptionStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	subs, err := uow.SubscriptionRepository().FindAllSubscriptions(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	var activeSub *entity.UserSubscription
	for _, sub := range subs {
		if sub.Status == entity.SubscriptionStatusActive && sub.CurrentPeriodEnd.After(time.Now()) {
			activeSub = sub
			break
		}
	}

	// Payment may have settled before the status flip was observed.
	if activeSub == nil {
		for _, sub := range subs {
			if sub.PaymentStatus == entity.PaymentStatusPaid && sub.CurrentPeriodEnd.After(time.Now()) {
				activeSub = sub
				break
			}
		}
	}

	if activeSub == nil {
		return &dto.SubscriptionStatusResponse{
			PlanName: "Free Plan",
			Status:   "inactive",
			IsActive: false,
			Features: dto.SubscriptionFeatures{
				SemanticSearch:       false,
				MaxFolders:           3,
				GenerationDailyLimit: 5,
			},
		}, nil
	}

	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: activeSub.PlanId})
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, errors.New("plan not found for active subscription")
	}

	return &dto.SubscriptionStatusResponse{
		SubscriptionId:   activeSub.Id,
		PlanName:         plan.Name,
		Status:           string(activeSub.Status),
		CurrentPeriodEnd: activeSub.CurrentPeriodEnd,
		IsActive:         true,
		Features: dto.SubscriptionFeatures{
			SemanticSearch:       plan.SemanticSearchEnabled,
			MaxFolders:           plan.MaxFolders,
			GenerationDailyLimit: plan.GenerationDailyLimit,
		},
	}, nil
}

func (s *paymentService) CancelSubscription(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	subs, err := uow.SubscriptionRepository().FindAllSubscriptions(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return err
	}

	var activeSub *entity.UserSubscription
	for _, sub := range subs {
		if sub.Status == entity.SubscriptionStatusActive {
			activeSub = sub
			break
		}
	}

	if activeSub == nil {
		return errors.New("no active subscription found")
	}

	activeSub.Status = entity.SubscriptionStatusCanceled
	if err := uow.SubscriptionRepository().UpdateSubscription(ctx, activeSub); err != nil {
		return err
	}

	if s.gateCache != nil {
		s.gateCache.Invalidate(userId)
	}
	return nil
}

// ValidateSubscription checks subscription validity lazily so no cronjob is
// needed to expire subscriptions.
func (s *paymentService) ValidateSubscription(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionValidationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	subs, err := uow.SubscriptionRepository().FindAllSubscriptions(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	if len(subs) == 0 {
		return &dto.SubscriptionValidationResponse{
			IsValid:         false,
			Status:          "free_tier",
			RenewalRequired: false,
		}, nil
	}

	var activeSub *entity.UserSubscription
	for _, sub := range subs {
		if sub.Status == entity.SubscriptionStatusActive && sub.PaymentStatus == entity.PaymentStatusPaid {
			activeSub = sub
			break
		}
		// Canceled subscriptions keep access until the paid period ends.
		if sub.Status == entity.SubscriptionStatusCanceled && sub.CurrentPeriodEnd.After(time.Now()) {
			activeSub = sub
			break
		}
	}

	if activeSub == nil {
		for _, sub := range subs {
			if sub.Status == entity.SubscriptionStatusCanceled {
				return &dto.SubscriptionValidationResponse{
					IsValid:         false,
					Status:          "canceled",
					RenewalRequired: true,
				}, nil
			}
		}

		return &dto.SubscriptionValidationResponse{
			IsValid:         false,
			Status:          "inactive",
			RenewalRequired: true,
		}, nil
	}

	now := time.Now()
	periodEnd := activeSub.CurrentPeriodEnd

	daysRemaining := int(periodEnd.Sub(now).Hours() / 24)
	if daysRemaining < 0 {
		daysRemaining = 0
	}

	planName := ""
	plan, _ := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: activeSub.PlanId})
	if plan != nil {
		planName = plan.Name
	}

	if now.Before(periodEnd) {
		return &dto.SubscriptionValidationResponse{
			IsValid:          true,
			Status:           "active",
			RenewalRequired:  false,
			CurrentPeriodEnd: periodEnd,
			DaysRemaining:    daysRemaining,
			PlanName:         planName,
		}, nil
	}

	gracePeriodDays := 7
	gracePeriodEnd := periodEnd.AddDate(0, 0, gracePeriodDays)

	if now.Before(gracePeriodEnd) {
		return &dto.SubscriptionValidationResponse{
			IsValid:          false,
			Status:           "grace_period",
			RenewalRequired:  true,
			CurrentPeriodEnd: periodEnd,
			DaysRemaining:    0,
			GracePeriodEnd:   &gracePeriodEnd,
			PlanName:         planName,
		}, nil
	}

	return &dto.SubscriptionValidationResponse{
		IsValid:          false,
		Status:           "expired",
		RenewalRequired:  true,
		CurrentPeriodEnd: periodEnd,
		DaysRemaining:    0,
		PlanName:         planName,
	}, nil
}
