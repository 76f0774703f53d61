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

type FolderRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FolderMapper
}

func NewFolderRepository(db *gorm.DB) contract.FolderRepository {
	return &FolderRepositoryImpl{
		db:     db,
		mapper: mapper.NewFolderMapper(),
	}
}

func (r *FolderRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *FolderRepositoryImpl) Create(ctx context.Context, folder *entity.Folder) error {
	m := r.mapper.ToModel(folder)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*folder = *r.mapper.ToEntity(m)
	return nil
}

func (r *FolderRepositoryImpl) Update(ctx context.Context, folder *entity.Folder) error {
	m := r.mapper.ToModel(folder)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*folder = *r.mapper.ToEntity(m)
	return nil
}

func (r *FolderRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Folder{}, id).Error
}

func (r *FolderRepositoryImpl) DeleteMany(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Folder{}).Error
}

func (r *FolderRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Folder, error) {
	var m model.Folder
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *FolderRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Folder, error) {
	var models []*model.Folder
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *FolderRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Folder{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
