package mapper

import (
	"time"

	"edugen-be/internal/entity"
	"edugen-be/internal/model"

	"gorm.io/gorm"
)

type FolderMapper struct{}

func NewFolderMapper() *FolderMapper {
	return &FolderMapper{}
}

func (m *FolderMapper) ToEntity(f *model.Folder) *entity.Folder {
	if f == nil {
		return nil
	}
	var deletedAt *time.Time
	if f.DeletedAt.Valid {
		t := f.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !f.UpdatedAt.IsZero() {
		t := f.UpdatedAt
		updatedAt = &t
	}

	return &entity.Folder{
		Id:        f.Id,
		Name:      f.Name,
		ParentId:  f.ParentId,
		UserId:    f.UserId,
		CreatedAt: f.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: f.DeletedAt.Valid,
	}
}

func (m *FolderMapper) ToModel(f *entity.Folder) *model.Folder {
	if f == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if f.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *f.DeletedAt, Valid: true}
	} else if f.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if f.UpdatedAt != nil {
		updatedAt = *f.UpdatedAt
	}

	return &model.Folder{
		Id:        f.Id,
		Name:      f.Name,
		ParentId:  f.ParentId,
		UserId:    f.UserId,
		CreatedAt: f.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *FolderMapper) ToEntities(folders []*model.Folder) []*entity.Folder {
	entities := make([]*entity.Folder, len(folders))
	for i, f := range folders {
		entities[i] = m.ToEntity(f)
	}
	return entities
}
