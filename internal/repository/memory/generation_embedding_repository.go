package memory

import (
	"context"
	"math"
	"sort"
	"time"

	"edugen-be/internal/entity"
	"edugen-be/internal/repository/contract"
	"edugen-be/internal/repository/specification"

	"github.com/google/uuid"
)

type GenerationEmbeddingRepository struct {
	store *Store
}

func NewGenerationEmbeddingRepository(store *Store) contract.GenerationEmbeddingRepository {
	return &GenerationEmbeddingRepository{store: store}
}

func (r *GenerationEmbeddingRepository) CreateBulk(ctx context.Context, embeddings []*entity.GenerationEmbedding) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, e := range embeddings {
		if e.Id == uuid.Nil {
			e.Id = uuid.New()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now()
		}
		cp := *e
		r.store.Embeddings[cp.Id] = &cp
	}
	return nil
}

func (r *GenerationEmbeddingRepository) DeleteByGenerationId(ctx context.Context, generationId uuid.UUID) error {
	return r.DeleteByGenerationIds(ctx, []uuid.UUID{generationId})
}

func (r *GenerationEmbeddingRepository) DeleteByGenerationIds(ctx context.Context, generationIds []uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, e := range r.store.Embeddings {
		if containsID(generationIds, e.GenerationId) {
			delete(r.store.Embeddings, id)
		}
	}
	return nil
}

func (r *GenerationEmbeddingRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GenerationEmbedding, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.GenerationEmbedding
	for _, e := range r.store.Embeddings {
		ok := true
		for _, spec := range specs {
			if !matchEmbedding(spec, e) {
				ok = false
				break
			}
		}
		if ok {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChunkIndex < out[j].ChunkIndex })
	return out, nil
}

func (r *GenerationEmbeddingRepository) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, threshold float64) ([]*contract.ScoredGenerationEmbedding, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var scored []*contract.ScoredGenerationEmbedding
	for _, e := range r.store.Embeddings {
		owner, ok := r.store.Generations[e.GenerationId]
		if !ok || owner.UserId != userId || owner.DeletedAt != nil {
			continue
		}
		similarity := cosineSimilarity(embedding, e.EmbeddingValue)
		if similarity < threshold {
			continue
		}
		cp := *e
		scored = append(scored, &contract.ScoredGenerationEmbedding{
			Embedding:  &cp,
			Similarity: similarity,
		})
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].Similarity > scored[j].Similarity })
	if limit > 0 && limit < len(scored) {
		scored = scored[:limit]
	}
	return scored, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
