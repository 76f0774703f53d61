package mapper

import (
	"edugen-be/internal/entity"
	"edugen-be/internal/model"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) PlanToEntity(p *model.SubscriptionPlan) *entity.SubscriptionPlan {
	if p == nil {
		return nil
	}
	return &entity.SubscriptionPlan{
		Id:                    p.Id,
		Name:                  p.Name,
		Slug:                  p.Slug,
		Description:           p.Description,
		Tagline:               p.Tagline,
		Price:                 p.Price,
		TaxRate:               p.TaxRate,
		BillingPeriod:         entity.BillingPeriod(p.BillingPeriod),
		MaxFolders:            p.MaxFolders,
		GenerationDailyLimit:  p.GenerationDailyLimit,
		SemanticSearchEnabled: p.SemanticSearchEnabled,
		IsMostPopular:         p.IsMostPopular,
		IsActive:              p.IsActive,
		SortOrder:             p.SortOrder,
	}
}

func (m *SubscriptionMapper) PlanToModel(p *entity.SubscriptionPlan) *model.SubscriptionPlan {
	if p == nil {
		return nil
	}
	return &model.SubscriptionPlan{
		Id:                    p.Id,
		Name:                  p.Name,
		Slug:                  p.Slug,
		Description:           p.Description,
		Tagline:               p.Tagline,
		Price:                 p.Price,
		TaxRate:               p.TaxRate,
		BillingPeriod:         string(p.BillingPeriod),
		MaxFolders:            p.MaxFolders,
		GenerationDailyLimit:  p.GenerationDailyLimit,
		SemanticSearchEnabled: p.SemanticSearchEnabled,
		IsMostPopular:         p.IsMostPopular,
		IsActive:              p.IsActive,
		SortOrder:             p.SortOrder,
	}
}

func (m *SubscriptionMapper) SubscriptionToEntity(s *model.UserSubscription) *entity.UserSubscription {
	if s == nil {
		return nil
	}
	return &entity.UserSubscription{
		Id:                    s.Id,
		UserId:                s.UserId,
		PlanId:                s.PlanId,
		BillingAddressId:      s.BillingAddressId,
		Status:                entity.SubscriptionStatus(s.Status),
		CurrentPeriodStart:    s.CurrentPeriodStart,
		CurrentPeriodEnd:      s.CurrentPeriodEnd,
		PaymentStatus:         entity.PaymentStatus(s.PaymentStatus),
		MidtransTransactionId: s.MidtransTransactionId,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) SubscriptionToModel(s *entity.UserSubscription) *model.UserSubscription {
	if s == nil {
		return nil
	}
	return &model.UserSubscription{
		Id:                    s.Id,
		UserId:                s.UserId,
		PlanId:                s.PlanId,
		BillingAddressId:      s.BillingAddressId,
		Status:                string(s.Status),
		CurrentPeriodStart:    s.CurrentPeriodStart,
		CurrentPeriodEnd:      s.CurrentPeriodEnd,
		PaymentStatus:         string(s.PaymentStatus),
		MidtransTransactionId: s.MidtransTransactionId,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}
}
