package contract

import (
	"context"

	"edugen-be/internal/entity"
	"edugen-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredGenerationEmbedding pairs an embedding with its cosine similarity.
type ScoredGenerationEmbedding struct {
	Embedding  *entity.GenerationEmbedding
	Similarity float64 // 1.0 = identical
}

type GenerationEmbeddingRepository interface {
	CreateBulk(ctx context.Context, embeddings []*entity.GenerationEmbedding) error
	DeleteByGenerationId(ctx context.Context, generationId uuid.UUID) error
	DeleteByGenerationIds(ctx context.Context, generationIds []uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GenerationEmbedding, error)

	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, threshold float64) ([]*ScoredGenerationEmbedding, error)
}
