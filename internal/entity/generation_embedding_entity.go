package entity

import (
	"time"

	"github.com/google/uuid"
)

type GenerationEmbedding struct {
	Id             uuid.UUID
	Document       string
	EmbeddingValue []float32
	GenerationId   uuid.UUID
	ChunkIndex     int
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
}
