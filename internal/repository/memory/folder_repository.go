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

type FolderRepository struct {
	store *Store
}

func NewFolderRepository(store *Store) contract.FolderRepository {
	return &FolderRepository{store: store}
}

func (r *FolderRepository) Create(ctx context.Context, folder *entity.Folder) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if folder.Id == uuid.Nil {
		folder.Id = uuid.New()
	}
	if folder.CreatedAt.IsZero() {
		folder.CreatedAt = time.Now()
	}
	cp := *folder
	r.store.Folders[cp.Id] = &cp
	return nil
}

func (r *FolderRepository) Update(ctx context.Context, folder *entity.Folder) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.Folders[folder.Id]; !ok {
		return fmt.Errorf("folder %s not found", folder.Id)
	}
	now := time.Now()
	folder.UpdatedAt = &now
	cp := *folder
	r.store.Folders[cp.Id] = &cp
	return nil
}

func (r *FolderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DeleteMany(ctx, []uuid.UUID{id})
}

func (r *FolderRepository) DeleteMany(ctx context.Context, ids []uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.FailFolderDeleteID != nil && containsID(ids, *r.store.FailFolderDeleteID) {
		return fmt.Errorf("simulated delete failure")
	}
	now := time.Now()
	for _, id := range ids {
		if f, ok := r.store.Folders[id]; ok {
			cp := *f
			cp.DeletedAt = &now
			cp.IsDeleted = true
			r.store.Folders[id] = &cp
		}
	}
	return nil
}

func (r *FolderRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Folder, error) {
	folders, err := r.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if len(folders) == 0 {
		return nil, nil
	}
	return folders[0], nil
}

func (r *FolderRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Folder, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Folder
	for _, f := range r.store.Folders {
		if f.DeletedAt != nil {
			continue
		}
		ok := true
		for _, spec := range specs {
			if !matchFolder(spec, f) {
				ok = false
				break
			}
		}
		if ok {
			cp := *f
			out = append(out, &cp)
		}
	}
	out = orderAndPage(out, specs, func(f *entity.Folder, field string) string {
		switch field {
		case "name":
			return f.Name
		default:
			return f.CreatedAt.Format(time.RFC3339Nano)
		}
	})
	return out, nil
}

func (r *FolderRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	folders, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(folders)), nil
}
