package implementation

import (
	"context"

	"edugen-be/internal/entity"
	"edugen-be/internal/mapper"
	"edugen-be/internal/model"
	"edugen-be/internal/repository/contract"
	"edugen-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type GenerationEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.GenerationEmbeddingMapper
}

func NewGenerationEmbeddingRepository(db *gorm.DB) contract.GenerationEmbeddingRepository {
	return &GenerationEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewGenerationEmbeddingMapper(),
	}
}

func (r *GenerationEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *GenerationEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.GenerationEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	models := make([]*model.GenerationEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.ToModel(e)
	}
	return r.db.WithContext(ctx).Create(models).Error
}

func (r *GenerationEmbeddingRepositoryImpl) DeleteByGenerationId(ctx context.Context, generationId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("generation_id = ?", generationId).Delete(&model.GenerationEmbedding{}).Error
}

func (r *GenerationEmbeddingRepositoryImpl) DeleteByGenerationIds(ctx context.Context, generationIds []uuid.UUID) error {
	if len(generationIds) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("generation_id IN ?", generationIds).Delete(&model.GenerationEmbedding{}).Error
}

func (r *GenerationEmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GenerationEmbedding, error) {
	var models []*model.GenerationEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

// SearchSimilarWithScore runs a cosine-similarity search scoped to one user.
// pgvector's <=> operator is cosine distance, so similarity = 1 - distance.
func (r *GenerationEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, threshold float64) ([]*contract.ScoredGenerationEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.GenerationEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("generation_embeddings").
		Select("generation_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN generations ON generations.id = generation_embeddings.generation_id").
		Where("generations.user_id = ?", userId).
		Where("generation_embeddings.deleted_at IS NULL").
		Where("generations.deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredGenerationEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredGenerationEmbedding{
			Embedding:  r.mapper.ToEntity(&res.GenerationEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
