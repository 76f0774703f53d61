package mapper

import (
	"time"

	"edugen-be/internal/entity"
	"edugen-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type GenerationEmbeddingMapper struct{}

func NewGenerationEmbeddingMapper() *GenerationEmbeddingMapper {
	return &GenerationEmbeddingMapper{}
}

func (m *GenerationEmbeddingMapper) ToEntity(e *model.GenerationEmbedding) *entity.GenerationEmbedding {
	if e == nil {
		return nil
	}
	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}
	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}
	return &entity.GenerationEmbedding{
		Id:             e.Id,
		Document:       e.Document,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		GenerationId:   e.GenerationId,
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}

func (m *GenerationEmbeddingMapper) ToModel(e *entity.GenerationEmbedding) *model.GenerationEmbedding {
	if e == nil {
		return nil
	}
	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	}
	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}
	return &model.GenerationEmbedding{
		Id:             e.Id,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		GenerationId:   e.GenerationId,
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}

func (m *GenerationEmbeddingMapper) ToEntities(embeddings []*model.GenerationEmbedding) []*entity.GenerationEmbedding {
	entities := make([]*entity.GenerationEmbedding, len(embeddings))
	for i, e := range embeddings {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
