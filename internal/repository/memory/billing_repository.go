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

type BillingRepository struct {
	store *Store
}

func NewBillingRepository(store *Store) contract.BillingRepository {
	return &BillingRepository{store: store}
}

func (r *BillingRepository) Create(ctx context.Context, billing *entity.BillingAddress) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if billing.Id == uuid.Nil {
		billing.Id = uuid.New()
	}
	if billing.CreatedAt.IsZero() {
		billing.CreatedAt = time.Now()
	}
	cp := *billing
	r.store.Billing[cp.Id] = &cp
	return nil
}

func (r *BillingRepository) Update(ctx context.Context, billing *entity.BillingAddress) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.Billing[billing.Id]; !ok {
		return fmt.Errorf("billing address %s not found", billing.Id)
	}
	billing.UpdatedAt = time.Now()
	cp := *billing
	r.store.Billing[cp.Id] = &cp
	return nil
}

func (r *BillingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.Billing, id)
	return nil
}

func (r *BillingRepository) DeleteAllByUserIdUnscoped(ctx context.Context, userId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, b := range r.store.Billing {
		if b.UserId == userId {
			delete(r.store.Billing, id)
		}
	}
	return nil
}

func (r *BillingRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BillingAddress, error) {
	addresses, err := r.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if len(addresses) == 0 {
		return nil, nil
	}
	return addresses[0], nil
}

func (r *BillingRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BillingAddress, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.BillingAddress
	for _, b := range r.store.Billing {
		ok := true
		for _, spec := range specs {
			if !matchBilling(spec, b) {
				ok = false
				break
			}
		}
		if ok {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *BillingRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	addresses, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(addresses)), nil
}
