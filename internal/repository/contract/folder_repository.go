package contract

import (
	"context"

	"edugen-be/internal/entity"
	"edugen-be/internal/repository/specification"

	"github.com/google/uuid"
)

type FolderRepository interface {
	Create(ctx context.Context, folder *entity.Folder) error
	Update(ctx context.Context, folder *entity.Folder) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteMany removes every folder in ids in one statement. Callers wanting
	// all-or-nothing semantics must run it inside a unit-of-work transaction.
	DeleteMany(ctx context.Context, ids []uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Folder, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Folder, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
