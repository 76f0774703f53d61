package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"edugen-be/internal/dto"
	"edugen-be/internal/entity"
	"edugen-be/internal/repository/memory"
	"edugen-be/pkg/embedding"
	"edugen-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLLM answers every prompt with a canned response.
type stubLLM struct {
	response string
	calls    int
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	s.calls++
	return s.response, nil
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, nil, opts...)
}

// stubEmbedder returns a fixed vector so semantic ranking is deterministic.
type stubEmbedder struct {
	vector []float32
}

func (s *stubEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: s.vector},
	}, nil
}

// stubQueue records embedding jobs instead of publishing them.
type stubQueue struct {
	payloads [][]byte
}

func (s *stubQueue) Publish(ctx context.Context, payload []byte) error {
	s.payloads = append(s.payloads, payload)
	return nil
}

const validActivityJSON = `{"title":"Fractions","questions":[{"number":1,"type":"open","text":"What is 1/2 + 1/4?"}]}`

func newGenerationTestService(model *stubLLM) (*memory.Store, *stubQueue, IGenerationService) {
	store := memory.NewStore()
	factory := memory.NewRepositoryFactory(store)
	queue := &stubQueue{}
	if model == nil {
		model = &stubLLM{response: validActivityJSON}
	}
	svc := NewGenerationService(factory, queue, model, &stubEmbedder{vector: []float32{1, 0, 0}}, nil, nil, nil)
	return store, queue, svc
}

func TestGenerateProducesNormalizedPayload(t *testing.T) {
	model := &stubLLM{response: "```json\n" + validActivityJSON + "\n```"}
	_, _, svc := newGenerationTestService(model)

	res, err := svc.Generate(context.Background(), uuid.New(), &dto.GenerateContentRequest{
		ContentType: "activity",
		Topic:       "Fractions",
		Grade:       "5",
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "activity", res.ContentType)

	var payload struct {
		Title     string `json:"title"`
		Questions []struct {
			Number int `json:"number"`
		} `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(res.Content, &payload))
	assert.Equal(t, "Fractions", payload.Title)
	require.Len(t, payload.Questions, 1)
	assert.Equal(t, 1, payload.Questions[0].Number)
	assert.Equal(t, 1, model.calls)
}

func TestGenerateRejectsUnknownContentType(t *testing.T) {
	model := &stubLLM{response: validActivityJSON}
	_, _, svc := newGenerationTestService(model)

	_, err := svc.Generate(context.Background(), uuid.New(), &dto.GenerateContentRequest{
		ContentType: "poem",
	})
	assert.ErrorIs(t, err, ErrUnknownContentType)
	assert.Equal(t, 0, model.calls)
}

func TestGenerateMalformedModelResponse(t *testing.T) {
	model := &stubLLM{response: "sorry, I cannot do that"}
	_, _, svc := newGenerationTestService(model)

	_, err := svc.Generate(context.Background(), uuid.New(), &dto.GenerateContentRequest{
		ContentType: "activity",
		Topic:       "Fractions",
	})
	assert.Error(t, err)
}

func TestGenerateDailyLimit(t *testing.T) {
	store, _, svc := newGenerationTestService(nil)
	ctx := context.Background()
	userId := uuid.New()

	seedActivePlan(store, userId, func(p *entity.SubscriptionPlan) {
		p.GenerationDailyLimit = 2
	})
	store.Users[userId] = &entity.User{
		Id:     userId,
		Email:  "teacher@example.com",
		Status: entity.UserStatusActive,
	}

	req := &dto.GenerateContentRequest{ContentType: "activity", Topic: "Fractions"}

	for i := 0; i < 2; i++ {
		_, err := svc.Generate(ctx, userId, req)
		require.NoError(t, err)
	}

	_, err := svc.Generate(ctx, userId, req)
	assert.ErrorIs(t, err, ErrDailyLimitReached)
}

func TestGenerateUsageResetsNextDay(t *testing.T) {
	store, _, svc := newGenerationTestService(nil)
	ctx := context.Background()
	userId := uuid.New()

	seedActivePlan(store, userId, func(p *entity.SubscriptionPlan) {
		p.GenerationDailyLimit = 1
	})
	store.Users[userId] = &entity.User{
		Id:                            userId,
		Email:                         "teacher@example.com",
		Status:                        entity.UserStatusActive,
		GenerationDailyUsage:          1,
		GenerationDailyUsageLastReset: time.Now().Add(-24 * time.Hour),
	}

	// Yesterday's usage does not count against today.
	_, err := svc.Generate(ctx, userId, &dto.GenerateContentRequest{ContentType: "activity", Topic: "Fractions"})
	require.NoError(t, err)
}

func TestSaveAndShow(t *testing.T) {
	_, queue, svc := newGenerationTestService(nil)
	ctx := context.Background()
	userId := uuid.New()

	res, err := svc.Save(ctx, userId, &dto.SaveGenerationRequest{
		Name:        "Fractions quiz",
		ContentType: "activity",
		Content:     json.RawMessage(validActivityJSON),
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	shown, err := svc.Show(ctx, userId, res.Id)
	require.NoError(t, err)
	require.NotNil(t, shown)
	assert.Equal(t, "Fractions quiz", shown.Name)
	assert.Equal(t, "activity", shown.ContentType)
	assert.Nil(t, shown.FolderId)

	// Saving queues one embedding job for the new generation.
	require.Len(t, queue.payloads, 1)
	var job dto.PublishEmbedGenerationMessage
	require.NoError(t, json.Unmarshal(queue.payloads[0], &job))
	assert.Equal(t, res.Id, job.GenerationId)
}

func TestSaveRejectsMismatchedContent(t *testing.T) {
	_, _, svc := newGenerationTestService(nil)

	_, err := svc.Save(context.Background(), uuid.New(), &dto.SaveGenerationRequest{
		Name:        "Broken",
		ContentType: "lessonPlan",
		Content:     json.RawMessage(validActivityJSON), // activity payload under a lessonPlan tag
	})
	assert.ErrorIs(t, err, ErrInvalidContent)
}

func TestSaveMissingFolder(t *testing.T) {
	_, _, svc := newGenerationTestService(nil)

	missing := uuid.New()
	res, err := svc.Save(context.Background(), uuid.New(), &dto.SaveGenerationRequest{
		Name:        "Homeless",
		ContentType: "activity",
		Content:     json.RawMessage(validActivityJSON),
		FolderId:    &missing,
	})
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestDuplicateCopiesContentIntoSameFolder(t *testing.T) {
	store, _, svc := newGenerationTestService(nil)
	ctx := context.Background()
	userId := uuid.New()

	folderId := uuid.New()
	store.Folders[folderId] = &entity.Folder{
		Id:        folderId,
		Name:      "Math",
		UserId:    userId,
		CreatedAt: time.Now(),
	}
	genId := seedGeneration(store, userId, &folderId, "Quiz")

	res, err := svc.Duplicate(ctx, userId, genId)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "Copy of Quiz", res.Name)
	assert.NotEqual(t, genId, res.Id)

	copyShown, err := svc.Show(ctx, userId, res.Id)
	require.NoError(t, err)
	require.NotNil(t, copyShown)
	assert.Equal(t, &folderId, copyShown.FolderId)

	original, err := svc.Show(ctx, userId, genId)
	require.NoError(t, err)
	assert.JSONEq(t, string(original.Content), string(copyShown.Content))
}

func TestMoveGenerationToMissingFolder(t *testing.T) {
	store, _, svc := newGenerationTestService(nil)
	userId := uuid.New()
	genId := seedGeneration(store, userId, nil, "Quiz")

	missing := uuid.New()
	res, err := svc.Move(context.Background(), userId, &dto.MoveGenerationRequest{
		Id:       genId,
		FolderId: &missing,
	})
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestMoveGenerationBetweenFolders(t *testing.T) {
	store, _, svc := newGenerationTestService(nil)
	ctx := context.Background()
	userId := uuid.New()

	folderId := uuid.New()
	store.Folders[folderId] = &entity.Folder{
		Id:        folderId,
		UserId:    userId,
		Name:      "Math",
		CreatedAt: time.Now(),
	}
	genId := seedGeneration(store, userId, nil, "Quiz")

	res, err := svc.Move(ctx, userId, &dto.MoveGenerationRequest{
		Id:       genId,
		FolderId: &folderId,
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	folders := NewFolderService(memory.NewRepositoryFactory(store), nil, nil, nil)

	rootList, err := folders.ListChildren(ctx, userId, nil)
	require.NoError(t, err)
	assert.Empty(t, rootList.Generations)

	childList, err := folders.ListChildren(ctx, userId, &folderId)
	require.NoError(t, err)
	require.Len(t, childList.Generations, 1)
	assert.Equal(t, genId, childList.Generations[0].Id)
}

func TestDeleteGenerationRemovesEmbeddings(t *testing.T) {
	store, _, svc := newGenerationTestService(nil)
	ctx := context.Background()
	userId := uuid.New()

	genId := seedGeneration(store, userId, nil, "Quiz")
	seedEmbedding(store, genId)

	require.NoError(t, svc.Delete(ctx, userId, genId))

	shown, err := svc.Show(ctx, userId, genId)
	require.NoError(t, err)
	assert.Nil(t, shown)
	assert.Len(t, embeddingsFor(store, genId), 0)
}

func TestSearchLiteralByName(t *testing.T) {
	store, _, svc := newGenerationTestService(nil)
	ctx := context.Background()
	userId := uuid.New()

	seedGeneration(store, userId, nil, "Fractions quiz")
	seedGeneration(store, userId, nil, "Volcano case study")
	seedGeneration(store, uuid.New(), nil, "Fractions quiz") // other user

	results, err := svc.Search(ctx, userId, "/name:fractions")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Fractions quiz", results[0].Name)
	assert.Equal(t, "literal", results[0].SearchType)
}

func TestSearchTypeFilter(t *testing.T) {
	store, _, svc := newGenerationTestService(nil)
	ctx := context.Background()
	userId := uuid.New()

	seedGeneration(store, userId, nil, "Alpha")
	other := seedGeneration(store, userId, nil, "Beta")
	store.Generations[other].ContentType = "summary"

	results, err := svc.Search(ctx, userId, "/type:summary")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Beta", results[0].Name)
}

func TestSearchSemanticRanksByScoreAndFiltersOwner(t *testing.T) {
	store, _, svc := newGenerationTestService(nil)
	ctx := context.Background()
	userId := uuid.New()

	seedActivePlan(store, userId, func(p *entity.SubscriptionPlan) {
		p.SemanticSearchEnabled = true
	})

	near := seedGeneration(store, userId, nil, "Fractions intro")
	far := seedGeneration(store, userId, nil, "Volcanoes")
	nearEmb := seedEmbedding(store, near)
	farEmb := seedEmbedding(store, far)
	store.Embeddings[nearEmb].EmbeddingValue = []float32{1, 0, 0}
	store.Embeddings[farEmb].EmbeddingValue = []float32{0, 1, 0}

	results, err := svc.Search(ctx, userId, "how do I introduce fractions")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, near, results[0].Id)
	assert.Equal(t, "semantic", results[0].SearchType)
	require.NotNil(t, results[0].RelevanceScore)
	assert.InDelta(t, 1.0, *results[0].RelevanceScore, 0.001)
}

func TestSearchFallsBackToLiteralWithoutPlanFeature(t *testing.T) {
	store, _, svc := newGenerationTestService(nil)
	ctx := context.Background()
	userId := uuid.New()

	seedGeneration(store, userId, nil, "Introducing fractions")

	// No active plan with semantic search, so a natural-language query
	// still runs as a name match.
	results, err := svc.Search(ctx, userId, "introducing fractions")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "literal", results[0].SearchType)
}
