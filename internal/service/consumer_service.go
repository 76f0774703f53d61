package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"edugen-be/internal/dto"
	"edugen-be/internal/entity"
	"edugen-be/internal/repository/specification"
	"edugen-be/internal/repository/unitofwork"
	"edugen-be/pkg/content"
	"edugen-be/pkg/embedding"
	"edugen-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedGenerationMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing embedding for GenerationId: %s", payload.GenerationId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	generation, err := uow.GenerationRepository().FindOne(ctx, specification.ByID{ID: payload.GenerationId})
	if err != nil {
		log.Printf("[ERROR] Failed to get generation %s: %v", payload.GenerationId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if generation == nil {
		log.Printf("[WARN] Generation not found: %s", payload.GenerationId)
		msg.Ack() // Deleted in the meantime, nothing to embed.
		return
	}

	folderName := "Root"
	if generation.FolderId != nil {
		folder, err := uow.FolderRepository().FindOne(ctx, specification.ByID{ID: *generation.FolderId})
		if err != nil {
			log.Printf("[ERROR] Failed to get folder %s: %v", *generation.FolderId, err)
			msg.Nack()
			return
		}
		if folder != nil {
			folderName = folder.Name
		}
	}

	updatedAt := "-"
	if generation.UpdatedAt != nil {
		updatedAt = generation.UpdatedAt.Format(time.RFC3339)
	}

	document := fmt.Sprintf(`Name: %s
Content Type: %s
Folder: %s

%s

Created At: %s
Updated At: %s`,
		generation.Name,
		generation.ContentType,
		folderName,
		flattenContent(generation.Content),
		generation.CreatedAt.Format(time.RFC3339),
		updatedAt,
	)

	// ChunkSize 1500 chars with 200 overlap keeps every chunk well inside the
	// embedding model's context.
	chunks := utils.SplitText(document, 1500, 200)
	log.Printf("[INFO] Content split into %d chunks", len(chunks))

	var newEmbeddings []*entity.GenerationEmbedding

	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Printf("[ERROR] Failed to generate embedding for chunk %d of generation %s: %v", i, payload.GenerationId, err)
			msg.Nack()
			return
		}

		newEmbeddings = append(newEmbeddings, &entity.GenerationEmbedding{
			Id:             uuid.New(),
			Document:       chunk,
			EmbeddingValue: res.Embedding.Values,
			GenerationId:   generation.Id,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.GenerationEmbeddingRepository().DeleteByGenerationId(ctx, generation.Id); err != nil {
		log.Printf("[ERROR] Failed to delete old embeddings: %v", err)
		msg.Nack()
		return
	}

	if len(newEmbeddings) > 0 {
		if err := uow.GenerationEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
			log.Printf("[ERROR] Failed to create bulk embeddings: %v", err)
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] Generation processed: %d chunks for GenerationId: %s", len(newEmbeddings), payload.GenerationId)
	msg.Ack()
}

// flattenContent renders the typed JSON payload as plain text so the
// embedding covers the material itself, not JSON syntax.
func flattenContent(raw json.RawMessage) string {
	var data interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return string(raw)
	}
	return content.FlattenText(data)
}
