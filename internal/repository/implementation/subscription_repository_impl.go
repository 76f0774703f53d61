package implementation

import (
	"context"
	"errors"

	"edugen-be/internal/entity"
	"edugen-be/internal/mapper"
	"edugen-be/internal/model"
	"edugen-be/internal/repository/contract"
	"edugen-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SubscriptionMapper
}

func NewSubscriptionRepository(db *gorm.DB) contract.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSubscriptionMapper(),
	}
}

func (r *SubscriptionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Plans

func (r *SubscriptionRepositoryImpl) CreatePlan(ctx context.Context, plan *entity.SubscriptionPlan) error {
	m := r.mapper.PlanToModel(plan)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*plan = *r.mapper.PlanToEntity(m)
	return nil
}

func (r *SubscriptionRepositoryImpl) UpdatePlan(ctx context.Context, plan *entity.SubscriptionPlan) error {
	m := r.mapper.PlanToModel(plan)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*plan = *r.mapper.PlanToEntity(m)
	return nil
}

func (r *SubscriptionRepositoryImpl) FindOnePlan(ctx context.Context, specs ...specification.Specification) (*entity.SubscriptionPlan, error) {
	var m model.SubscriptionPlan
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PlanToEntity(&m), nil
}

func (r *SubscriptionRepositoryImpl) FindAllPlans(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionPlan, error) {
	var models []*model.SubscriptionPlan
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.SubscriptionPlan, len(models))
	for i, m := range models {
		entities[i] = r.mapper.PlanToEntity(m)
	}
	return entities, nil
}

// User subscriptions

func (r *SubscriptionRepositoryImpl) CreateSubscription(ctx context.Context, subscription *entity.UserSubscription) error {
	m := r.mapper.SubscriptionToModel(subscription)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*subscription = *r.mapper.SubscriptionToEntity(m)
	return nil
}

func (r *SubscriptionRepositoryImpl) UpdateSubscription(ctx context.Context, subscription *entity.UserSubscription) error {
	m := r.mapper.SubscriptionToModel(subscription)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*subscription = *r.mapper.SubscriptionToEntity(m)
	return nil
}

func (r *SubscriptionRepositoryImpl) DeleteSubscription(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.UserSubscription{}, id).Error
}

func (r *SubscriptionRepositoryImpl) FindOneSubscription(ctx context.Context, specs ...specification.Specification) (*entity.UserSubscription, error) {
	var m model.UserSubscription
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SubscriptionToEntity(&m), nil
}

func (r *SubscriptionRepositoryImpl) FindAllSubscriptions(ctx context.Context, specs ...specification.Specification) ([]*entity.UserSubscription, error) {
	var models []*model.UserSubscription
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.UserSubscription, len(models))
	for i, m := range models {
		entities[i] = r.mapper.SubscriptionToEntity(m)
	}
	return entities, nil
}
