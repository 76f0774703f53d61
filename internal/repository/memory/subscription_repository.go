package memory

import (
	"context"
	"fmt"
	"time"

	"edugen-be/internal/entity"
	"edugen-be/internal/repository/contract"
	"edugen-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SubscriptionRepository struct {
	store *Store
}

func NewSubscriptionRepository(store *Store) contract.SubscriptionRepository {
	return &SubscriptionRepository{store: store}
}

func (r *SubscriptionRepository) CreatePlan(ctx context.Context, plan *entity.SubscriptionPlan) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if plan.Id == uuid.Nil {
		plan.Id = uuid.New()
	}
	cp := *plan
	r.store.Plans[cp.Id] = &cp
	return nil
}

func (r *SubscriptionRepository) UpdatePlan(ctx context.Context, plan *entity.SubscriptionPlan) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.Plans[plan.Id]; !ok {
		return fmt.Errorf("plan %s not found", plan.Id)
	}
	cp := *plan
	r.store.Plans[cp.Id] = &cp
	return nil
}

func (r *SubscriptionRepository) FindOnePlan(ctx context.Context, specs ...specification.Specification) (*entity.SubscriptionPlan, error) {
	plans, err := r.FindAllPlans(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, nil
	}
	return plans[0], nil
}

func (r *SubscriptionRepository) FindAllPlans(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionPlan, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.SubscriptionPlan
	for _, p := range r.store.Plans {
		ok := true
		for _, spec := range specs {
			if !matchPlan(spec, p) {
				ok = false
				break
			}
		}
		if ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	out = orderAndPage(out, specs, func(p *entity.SubscriptionPlan, field string) string {
		switch field {
		case "sort_order":
			return fmt.Sprintf("%010d", p.SortOrder)
		case "name":
			return p.Name
		}
		panic(fmt.Sprintf("memory: unsupported plan order field %q", field))
	})
	return out, nil
}

func (r *SubscriptionRepository) CreateSubscription(ctx context.Context, subscription *entity.UserSubscription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if subscription.Id == uuid.Nil {
		subscription.Id = uuid.New()
	}
	if subscription.CreatedAt.IsZero() {
		subscription.CreatedAt = time.Now()
	}
	cp := *subscription
	r.store.Subscriptions[cp.Id] = &cp
	return nil
}

func (r *SubscriptionRepository) UpdateSubscription(ctx context.Context, subscription *entity.UserSubscription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.Subscriptions[subscription.Id]; !ok {
		return fmt.Errorf("subscription %s not found", subscription.Id)
	}
	subscription.UpdatedAt = time.Now()
	cp := *subscription
	r.store.Subscriptions[cp.Id] = &cp
	return nil
}

func (r *SubscriptionRepository) DeleteSubscription(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.Subscriptions, id)
	return nil
}

func (r *SubscriptionRepository) FindOneSubscription(ctx context.Context, specs ...specification.Specification) (*entity.UserSubscription, error) {
	subs, err := r.FindAllSubscriptions(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, nil
	}
	return subs[0], nil
}

func (r *SubscriptionRepository) FindAllSubscriptions(ctx context.Context, specs ...specification.Specification) ([]*entity.UserSubscription, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.UserSubscription
	for _, s := range r.store.Subscriptions {
		ok := true
		for _, spec := range specs {
			if !matchSubscription(spec, s) {
				ok = false
				break
			}
		}
		if ok {
			cp := *s
			out = append(out, &cp)
		}
	}
	out = orderAndPage(out, specs, func(s *entity.UserSubscription, field string) string {
		if field == "created_at" {
			return s.CreatedAt.UTC().Format("2006-01-02T15:04:05.000000000")
		}
		panic(fmt.Sprintf("memory: unsupported subscription order field %q", field))
	})
	return out, nil
}
