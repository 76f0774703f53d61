package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"edugen-be/internal/dto"
	"edugen-be/internal/entity"
	"edugen-be/internal/pkg/logger"
	"edugen-be/internal/repository/specification"
	"edugen-be/internal/repository/unitofwork"
	"edugen-be/pkg/content"
	"edugen-be/pkg/embedding"
	"edugen-be/pkg/events"
	"edugen-be/pkg/llm"
	pktNats "edugen-be/pkg/nats"
	"edugen-be/pkg/prompt"
	pkgSearch "edugen-be/pkg/search"

	"github.com/google/uuid"
)

var (
	ErrUnknownContentType   = errors.New("unknown content type")
	ErrDailyLimitReached    = errors.New("daily generation limit reached")
	ErrInvalidContent       = errors.New("content payload does not match its content type")
	ErrFoldersNotDuplicable = errors.New("folders cannot be duplicated")
)

const (
	semanticSearchThreshold = 0.35
	literalSearchLimit      = 50
)

type IGenerationService interface {
	Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateContentRequest) (*dto.GenerateContentResponse, error)
	Save(ctx context.Context, userId uuid.UUID, req *dto.SaveGenerationRequest) (*dto.SaveGenerationResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowGenerationResponse, error)
	Rename(ctx context.Context, userId uuid.UUID, req *dto.RenameGenerationRequest) (*dto.RenameGenerationResponse, error)
	Move(ctx context.Context, userId uuid.UUID, req *dto.MoveGenerationRequest) (*dto.MoveGenerationResponse, error)
	Duplicate(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DuplicateGenerationResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	Search(ctx context.Context, userId uuid.UUID, query string) ([]*dto.SearchGenerationResponse, error)
}

type generationService struct {
	uowFactory        unitofwork.RepositoryFactory
	publisherService  IPublisherService
	llmProvider       llm.LLMProvider
	embeddingProvider embedding.EmbeddingProvider
	watchNotifier     IWatchNotifier
	eventPublisher    *pktNats.Publisher
	logger            logger.ILogger
}

func NewGenerationService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	llmProvider llm.LLMProvider,
	embeddingProvider embedding.EmbeddingProvider,
	watchNotifier IWatchNotifier,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IGenerationService {
	return &generationService{
		uowFactory:        uowFactory,
		publisherService:  publisherService,
		llmProvider:       llmProvider,
		embeddingProvider: embeddingProvider,
		watchNotifier:     watchNotifier,
		eventPublisher:    eventPublisher,
		logger:            log,
	}
}

func (c *generationService) Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateContentRequest) (*dto.GenerateContentResponse, error) {
	if !content.IsValidType(req.ContentType) {
		return nil, ErrUnknownContentType
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)

	if err := c.checkDailyLimit(ctx, uow, userId); err != nil {
		return nil, err
	}

	promptText, err := prompt.Build(req.ContentType, &prompt.Request{
		Topic:             req.Topic,
		Grade:             req.Grade,
		Pages:             req.Pages,
		QuestionTypes:     req.QuestionTypes,
		ClassName:         req.ClassName,
		Subjects:          req.Subjects,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		TeacherName:       req.TeacherName,
		Discipline:        req.Discipline,
		Weekdays:          req.Weekdays,
		PresentationStyle: req.PresentationStyle,
		SourceText:        req.SourceText,
	})
	if err != nil {
		return nil, err
	}

	raw, err := c.llmProvider.Generate(ctx, promptText, llm.WithTemperature(0.7))
	if err != nil {
		return nil, err
	}

	result, err := content.Normalize(req.ContentType, raw)
	if err != nil {
		return nil, err
	}

	payload, err := result.Payload()
	if err != nil {
		return nil, err
	}

	if err := c.incrementDailyUsage(ctx, uow, userId); err != nil && c.logger != nil {
		c.logger.Warn("GenerationService", "Failed to increment generation usage", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return &dto.GenerateContentResponse{
		ContentType: req.ContentType,
		Content:     payload,
	}, nil
}

// checkDailyLimit enforces the plan's per-day generation quota. Usage resets
// lazily on the first check of a new day.
func (c *generationService) checkDailyLimit(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) error {
	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.Filter("status", entity.SubscriptionStatusActive),
	)
	if err != nil {
		return err
	}
	if sub == nil {
		return nil // Gate middleware decides access; no quota without a plan
	}

	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: sub.PlanId})
	if err != nil {
		return err
	}
	if plan == nil || plan.GenerationDailyLimit <= 0 {
		return nil
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	usage := user.GenerationDailyUsage
	if !sameDay(user.GenerationDailyUsageLastReset, time.Now()) {
		usage = 0
	}
	if usage >= plan.GenerationDailyLimit {
		return ErrDailyLimitReached
	}
	return nil
}

func (c *generationService) incrementDailyUsage(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) error {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil || user == nil {
		return err
	}

	now := time.Now()
	if !sameDay(user.GenerationDailyUsageLastReset, now) {
		user.GenerationDailyUsage = 0
		user.GenerationDailyUsageLastReset = now
	}
	user.GenerationDailyUsage++

	return uow.UserRepository().Update(ctx, user)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (c *generationService) Save(ctx context.Context, userId uuid.UUID, req *dto.SaveGenerationRequest) (*dto.SaveGenerationResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if !content.IsValidType(req.ContentType) {
		return nil, ErrUnknownContentType
	}

	// Reject payloads that do not match the declared type before persisting.
	if _, err := content.Normalize(req.ContentType, string(req.Content)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)

	if req.FolderId != nil {
		folder, err := uow.FolderRepository().FindOne(ctx,
			specification.ByID{ID: *req.FolderId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if folder == nil {
			return nil, nil // Folder not found
		}
	}

	generation := entity.Generation{
		Id:          uuid.New(),
		Name:        req.Name,
		ContentType: req.ContentType,
		Content:     json.RawMessage(req.Content),
		FolderId:    req.FolderId,
		UserId:      userId,
		CreatedAt:   time.Now(),
	}

	if err := uow.GenerationRepository().Create(ctx, &generation); err != nil {
		return nil, err
	}

	if err := c.enqueueEmbedding(ctx, generation.Id); err != nil {
		return nil, err
	}

	c.afterMutation(ctx, userId, "GENERATION_SAVED", map[string]interface{}{
		"generation_id": generation.Id,
		"name":          generation.Name,
		"content_type":  generation.ContentType,
	})

	return &dto.SaveGenerationResponse{
		Id: generation.Id,
	}, nil
}

func (c *generationService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowGenerationResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	generation, err := uow.GenerationRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if generation == nil {
		return nil, nil
	}

	return &dto.ShowGenerationResponse{
		Id:          generation.Id,
		Name:        generation.Name,
		ContentType: generation.ContentType,
		Content:     generation.Content,
		FolderId:    generation.FolderId,
		CreatedAt:   generation.CreatedAt,
		UpdatedAt:   generation.UpdatedAt,
	}, nil
}

func (c *generationService) Rename(ctx context.Context, userId uuid.UUID, req *dto.RenameGenerationRequest) (*dto.RenameGenerationResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)

	generation, err := uow.GenerationRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if generation == nil {
		return nil, nil
	}

	if generation.Name == req.Name {
		return &dto.RenameGenerationResponse{Id: generation.Id}, nil
	}

	now := time.Now()
	generation.Name = req.Name
	generation.UpdatedAt = &now

	if err := uow.GenerationRepository().Update(ctx, generation); err != nil {
		return nil, err
	}

	// Name is part of the embedded document, refresh it.
	if err := c.enqueueEmbedding(ctx, generation.Id); err != nil {
		return nil, err
	}

	c.afterMutation(ctx, userId, "GENERATION_RENAMED", map[string]interface{}{
		"generation_id": generation.Id,
		"name":          generation.Name,
	})

	return &dto.RenameGenerationResponse{
		Id: generation.Id,
	}, nil
}

func (c *generationService) Move(ctx context.Context, userId uuid.UUID, req *dto.MoveGenerationRequest) (*dto.MoveGenerationResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	generation, err := uow.GenerationRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if generation == nil {
		return nil, nil
	}

	if req.FolderId != nil {
		folder, err := uow.FolderRepository().FindOne(ctx,
			specification.ByID{ID: *req.FolderId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if folder == nil {
			return nil, nil // Destination not found
		}
	}

	now := time.Now()
	generation.FolderId = req.FolderId
	generation.UpdatedAt = &now

	if err := uow.GenerationRepository().Update(ctx, generation); err != nil {
		return nil, err
	}

	c.afterMutation(ctx, userId, "GENERATION_MOVED", map[string]interface{}{
		"generation_id": generation.Id,
	})

	return &dto.MoveGenerationResponse{
		Id: generation.Id,
	}, nil
}

// Duplicate copies a generation into the same folder under a "Copy of" name.
func (c *generationService) Duplicate(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DuplicateGenerationResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	original, err := uow.GenerationRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, nil
	}

	copyContent := make(json.RawMessage, len(original.Content))
	copy(copyContent, original.Content)

	duplicate := entity.Generation{
		Id:          uuid.New(),
		Name:        "Copy of " + original.Name,
		ContentType: original.ContentType,
		Content:     copyContent,
		FolderId:    original.FolderId,
		UserId:      userId,
		CreatedAt:   time.Now(),
	}

	if err := uow.GenerationRepository().Create(ctx, &duplicate); err != nil {
		return nil, err
	}

	if err := c.enqueueEmbedding(ctx, duplicate.Id); err != nil {
		return nil, err
	}

	c.afterMutation(ctx, userId, "GENERATION_DUPLICATED", map[string]interface{}{
		"generation_id": duplicate.Id,
		"source_id":     original.Id,
	})

	return &dto.DuplicateGenerationResponse{
		Id:   duplicate.Id,
		Name: duplicate.Name,
	}, nil
}

func (c *generationService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	generation, err := uow.GenerationRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if generation == nil {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.GenerationRepository().Delete(ctx, id); err != nil {
		return err
	}

	if err := uow.GenerationEmbeddingRepository().DeleteByGenerationId(ctx, id); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	c.afterMutation(ctx, userId, "GENERATION_DELETED", map[string]interface{}{
		"generation_id": id,
	})

	return nil
}

func (c *generationService) Search(ctx context.Context, userId uuid.UUID, query string) ([]*dto.SearchGenerationResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	var generations []*entity.Generation
	var searchType string
	scoreMap := make(map[uuid.UUID]float64)

	filters := pkgSearch.ParseQuery(query)
	hasFilters := filters.Name != "" || filters.Type != ""

	strategy := pkgSearch.DetermineStrategy(filters.Query)
	semanticAllowed, err := c.semanticSearchEnabled(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	if hasFilters || strategy == pkgSearch.StrategyLiteral || !semanticAllowed || c.embeddingProvider == nil {
		searchType = "literal"

		specs := []specification.Specification{
			specification.UserOwnedBy{UserID: userId},
		}
		if filters.Name != "" {
			specs = append(specs, specification.GenerationSearchQuery{Query: filters.Name})
		}
		if filters.Type != "" {
			specs = append(specs, specification.ByContentType{ContentType: filters.Type})
		}
		if filters.Query != "" {
			specs = append(specs, specification.GenerationSearchQuery{Query: filters.Query})
		}
		specs = append(specs,
			specification.OrderBy{Field: "updated_at", Desc: true},
			specification.Pagination{Limit: literalSearchLimit},
		)

		generations, err = uow.GenerationRepository().FindAll(ctx, specs...)
		if err != nil {
			return nil, err
		}
	} else {
		searchType = "semantic"

		embeddingRes, err := c.embeddingProvider.Generate(filters.Query, "RETRIEVAL_QUERY")
		if err != nil {
			return nil, err
		}

		scoredResults, err := uow.GenerationEmbeddingRepository().SearchSimilarWithScore(
			ctx, embeddingRes.Embedding.Values, 10, userId, semanticSearchThreshold)
		if err != nil {
			return nil, err
		}

		if len(scoredResults) == 0 {
			return []*dto.SearchGenerationResponse{}, nil
		}

		// Deduplicate chunks of the same generation, best score first.
		ids := make([]uuid.UUID, 0)
		seen := make(map[uuid.UUID]bool)
		for _, sr := range scoredResults {
			if !seen[sr.Embedding.GenerationId] {
				ids = append(ids, sr.Embedding.GenerationId)
				seen[sr.Embedding.GenerationId] = true
				scoreMap[sr.Embedding.GenerationId] = sr.Similarity
			}
		}

		fetched, err := uow.GenerationRepository().FindAll(ctx,
			specification.ByIDs{IDs: ids},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}

		// Preserve relevance order.
		byId := make(map[uuid.UUID]*entity.Generation, len(fetched))
		for _, g := range fetched {
			byId[g.Id] = g
		}
		for _, id := range ids {
			if g, ok := byId[id]; ok {
				generations = append(generations, g)
			}
		}
	}

	response := make([]*dto.SearchGenerationResponse, 0, len(generations))
	for _, g := range generations {
		resp := &dto.SearchGenerationResponse{
			Id:          g.Id,
			Name:        g.Name,
			ContentType: g.ContentType,
			FolderId:    g.FolderId,
			CreatedAt:   g.CreatedAt,
			UpdatedAt:   g.UpdatedAt,
			SearchType:  searchType,
		}
		if score, ok := scoreMap[g.Id]; ok {
			s := score
			resp.RelevanceScore = &s
		}
		response = append(response, resp)
	}

	return response, nil
}

func (c *generationService) semanticSearchEnabled(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (bool, error) {
	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.Filter("status", entity.SubscriptionStatusActive),
	)
	if err != nil {
		return false, err
	}
	if sub == nil {
		return false, nil
	}

	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: sub.PlanId})
	if err != nil {
		return false, err
	}
	return plan != nil && plan.SemanticSearchEnabled, nil
}

func (c *generationService) enqueueEmbedding(ctx context.Context, generationId uuid.UUID) error {
	msgPayload := dto.PublishEmbedGenerationMessage{
		GenerationId: generationId,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return err
	}
	return c.publisherService.Publish(ctx, msgJson)
}

func (c *generationService) afterMutation(ctx context.Context, userId uuid.UUID, eventType string, data map[string]interface{}) {
	if c.watchNotifier != nil {
		c.watchNotifier.NotifyHierarchyChanged(ctx, userId)
	}

	if c.eventPublisher != nil {
		data["user_id"] = userId
		evt := events.BaseEvent{
			Type:       eventType,
			Data:       data,
			OccurredAt: time.Now(),
		}
		if err := c.eventPublisher.Publish(ctx, evt); err != nil && c.logger != nil {
			c.logger.Warn("GenerationService", "Failed to publish event", map[string]interface{}{
				"type":  eventType,
				"error": err.Error(),
			})
		}
	}
}
