// FILE: internal/service/plan_service.go
// Service for plan management and usage limit checking
package service

import (
	"context"
	"time"

	"edugen-be/internal/dto"
	"edugen-be/internal/entity"
	"edugen-be/internal/repository/specification"
	"edugen-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type PlanService interface {
	// Public
	GetAllActivePlansWithFeatures(ctx context.Context) ([]*dto.PlanWithFeaturesResponse, error)

	// User
	GetUserUsageStatus(ctx context.Context, userId uuid.UUID) (*dto.UsageStatusResponse, error)
	CheckCanCreateFolder(ctx context.Context, userId uuid.UUID) error
	CheckCanGenerate(ctx context.Context, userId uuid.UUID) error
}

type planService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewPlanService(uowFactory unitofwork.RepositoryFactory) PlanService {
	return &planService{
		uowFactory: uowFactory,
	}
}

// GetAllActivePlansWithFeatures returns all active plans for the pricing modal
func (s *planService) GetAllActivePlansWithFeatures(ctx context.Context) ([]*dto.PlanWithFeaturesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plans, err := uow.SubscriptionRepository().FindAllPlans(ctx,
		specification.Filter("is_active", true),
		specification.OrderBy{Field: "sort_order"},
	)
	if err != nil {
		return nil, err
	}

	var result []*dto.PlanWithFeaturesResponse
	for _, plan := range plans {
		features := []dto.FeatureDTO{
			{Key: "content_generation", Text: "Content Generation", IsEnabled: true},
			{Key: "folder_organization", Text: "Folder Organization", IsEnabled: true},
			{Key: "semantic_search", Text: "Semantic Search", IsEnabled: plan.SemanticSearchEnabled},
		}

		result = append(result, &dto.PlanWithFeaturesResponse{
			Id:            plan.Id,
			Name:          plan.Name,
			Slug:          plan.Slug,
			Tagline:       plan.Tagline,
			Price:         plan.Price,
			BillingPeriod: string(plan.BillingPeriod),
			IsMostPopular: plan.IsMostPopular,
			Limits: dto.PlanLimitsDTO{
				MaxFolders:      plan.MaxFolders,
				GenerationDaily: plan.GenerationDailyLimit,
			},
			Features: features,
		})
	}

	return result, nil
}

// GetUserUsageStatus returns current usage vs limits for a user
func (s *planService) GetUserUsageStatus(ctx context.Context, userId uuid.UUID) (*dto.UsageStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}

	plan, err := s.getUserPlan(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	folderCount, err := uow.FolderRepository().Count(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.NotDeleted{},
	)
	if err != nil {
		return nil, err
	}

	if err := s.checkAndResetDailyUsage(ctx, uow, user); err != nil {
		return nil, err
	}

	// Daily counters reset at the next local midnight.
	now := time.Now()
	resetTime := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())

	response := &dto.UsageStatusResponse{
		Plan: dto.PlanInfo{
			Id:   plan.Id,
			Name: plan.Name,
			Slug: plan.Slug,
		},
		Storage: dto.StorageLimits{
			Folders: dto.UsageLimit{
				Used:   int(folderCount),
				Limit:  plan.MaxFolders,
				CanUse: plan.MaxFolders < 0 || int(folderCount) < plan.MaxFolders,
			},
		},
		Daily: dto.DailyLimits{
			Generations: dto.UsageLimit{
				Used:     user.GenerationDailyUsage,
				Limit:    plan.GenerationDailyLimit,
				CanUse:   s.canUseLimit(user.GenerationDailyUsage, plan.GenerationDailyLimit),
				ResetsAt: &resetTime,
			},
		},
		UpgradeAvailable: plan.Slug == "free",
	}

	return response, nil
}

// checkAndResetDailyUsage zeroes the counter when the last reset was on a
// different calendar day.
func (s *planService) checkAndResetDailyUsage(ctx context.Context, uow unitofwork.UnitOfWork, user *entity.User) error {
	now := time.Now()
	lastReset := user.GenerationDailyUsageLastReset

	if now.Year() != lastReset.Year() || now.Month() != lastReset.Month() || now.Day() != lastReset.Day() {
		user.GenerationDailyUsage = 0
		user.GenerationDailyUsageLastReset = now

		if err := uow.UserRepository().Update(ctx, user); err != nil {
			return err
		}
	}
	return nil
}

// CheckCanCreateFolder checks if user can create another folder
func (s *planService) CheckCanCreateFolder(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plan, err := s.getUserPlan(ctx, uow, userId)
	if err != nil {
		return err
	}

	// -1 means unlimited
	if plan.MaxFolders < 0 {
		return nil
	}

	count, err := uow.FolderRepository().Count(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.NotDeleted{},
	)
	if err != nil {
		return err
	}

	if int(count) >= plan.MaxFolders {
		return &dto.LimitExceededError{
			Limit: plan.MaxFolders,
			Used:  int(count),
		}
	}

	return nil
}

// CheckCanGenerate checks the daily generation quota
func (s *planService) CheckCanGenerate(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}

	plan, err := s.getUserPlan(ctx, uow, userId)
	if err != nil {
		return err
	}

	if err := s.checkAndResetDailyUsage(ctx, uow, user); err != nil {
		return err
	}

	if !s.canUseLimit(user.GenerationDailyUsage, plan.GenerationDailyLimit) {
		now := time.Now()
		return &dto.LimitExceededError{
			Limit:      plan.GenerationDailyLimit,
			Used:       user.GenerationDailyUsage,
			ResetAfter: time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location()),
		}
	}

	return nil
}

// getUserPlan gets the user's current plan or returns default free plan
func (s *planService) getUserPlan(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.SubscriptionPlan, error) {
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
		// Canceled subscriptions keep access until the paid period ends.
		if sub.Status == entity.SubscriptionStatusCanceled && sub.CurrentPeriodEnd.After(time.Now()) {
			activeSub = sub
			break
		}
		if sub.PaymentStatus == entity.PaymentStatusPaid && sub.CurrentPeriodEnd.After(time.Now()) {
			activeSub = sub
			break
		}
	}

	if activeSub != nil {
		plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: activeSub.PlanId})
		if err != nil {
			return nil, err
		}
		if plan != nil {
			return plan, nil
		}
	}

	return &entity.SubscriptionPlan{
		Name:                  "Free Plan",
		Slug:                  "free",
		MaxFolders:            3,
		GenerationDailyLimit:  5,
		SemanticSearchEnabled: false,
	}, nil
}

func (s *planService) canUseLimit(used int, limit int) bool {
	if limit < 0 {
		return true // Unlimited
	}
	return used < limit
}
