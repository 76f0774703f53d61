package mapper

import (
	"encoding/json"
	"time"

	"edugen-be/internal/entity"
	"edugen-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GenerationMapper struct{}

func NewGenerationMapper() *GenerationMapper {
	return &GenerationMapper{}
}

func (m *GenerationMapper) ToEntity(g *model.Generation) *entity.Generation {
	if g == nil {
		return nil
	}
	var deletedAt *time.Time
	if g.DeletedAt.Valid {
		t := g.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !g.UpdatedAt.IsZero() {
		t := g.UpdatedAt
		updatedAt = &t
	}

	return &entity.Generation{
		Id:          g.Id,
		Name:        g.Name,
		ContentType: g.ContentType,
		Content:     json.RawMessage(g.Content),
		FolderId:    g.FolderId,
		UserId:      g.UserId,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   g.DeletedAt.Valid,
	}
}

func (m *GenerationMapper) ToModel(g *entity.Generation) *model.Generation {
	if g == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if g.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *g.DeletedAt, Valid: true}
	} else if g.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if g.UpdatedAt != nil {
		updatedAt = *g.UpdatedAt
	}

	return &model.Generation{
		Id:          g.Id,
		Name:        g.Name,
		ContentType: g.ContentType,
		Content:     datatypes.JSON(g.Content),
		FolderId:    g.FolderId,
		UserId:      g.UserId,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *GenerationMapper) ToEntities(generations []*model.Generation) []*entity.Generation {
	entities := make([]*entity.Generation, len(generations))
	for i, g := range generations {
		entities[i] = m.ToEntity(g)
	}
	return entities
}
