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

type GenerationRepository struct {
	store *Store
}

func NewGenerationRepository(store *Store) contract.GenerationRepository {
	return &GenerationRepository{store: store}
}

func (r *GenerationRepository) Create(ctx context.Context, generation *entity.Generation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if generation.Id == uuid.Nil {
		generation.Id = uuid.New()
	}
	if generation.CreatedAt.IsZero() {
		generation.CreatedAt = time.Now()
	}
	cp := *generation
	r.store.Generations[cp.Id] = &cp
	return nil
}

func (r *GenerationRepository) Update(ctx context.Context, generation *entity.Generation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.Generations[generation.Id]; !ok {
		return fmt.Errorf("generation %s not found", generation.Id)
	}
	now := time.Now()
	generation.UpdatedAt = &now
	cp := *generation
	r.store.Generations[cp.Id] = &cp
	return nil
}

func (r *GenerationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DeleteMany(ctx, []uuid.UUID{id})
}

func (r *GenerationRepository) DeleteMany(ctx context.Context, ids []uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.FailGenerationDelete {
		return fmt.Errorf("simulated delete failure")
	}
	now := time.Now()
	for _, id := range ids {
		if g, ok := r.store.Generations[id]; ok {
			cp := *g
			cp.DeletedAt = &now
			cp.IsDeleted = true
			r.store.Generations[id] = &cp
		}
	}
	return nil
}

func (r *GenerationRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Generation, error) {
	generations, err := r.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if len(generations) == 0 {
		return nil, nil
	}
	return generations[0], nil
}

func (r *GenerationRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Generation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Generation
	for _, g := range r.store.Generations {
		if g.DeletedAt != nil {
			continue
		}
		ok := true
		for _, spec := range specs {
			if !matchGeneration(spec, g) {
				ok = false
				break
			}
		}
		if ok {
			cp := *g
			out = append(out, &cp)
		}
	}
	out = orderAndPage(out, specs, func(g *entity.Generation, field string) string {
		switch field {
		case "name":
			return g.Name
		default:
			return g.CreatedAt.Format(time.RFC3339Nano)
		}
	})
	return out, nil
}

func (r *GenerationRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	generations, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(generations)), nil
}
