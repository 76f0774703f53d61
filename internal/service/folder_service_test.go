package service

import (
	"context"
	"testing"
	"time"

	"edugen-be/internal/dto"
	"edugen-be/internal/entity"
	"edugen-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFolderTestService() (*memory.Store, IFolderService) {
	store := memory.NewStore()
	factory := memory.NewRepositoryFactory(store)
	return store, NewFolderService(factory, nil, nil, nil)
}

func mustCreateFolder(t *testing.T, svc IFolderService, userId uuid.UUID, name string, parentId *uuid.UUID) uuid.UUID {
	t.Helper()
	res, err := svc.Create(context.Background(), userId, &dto.CreateFolderRequest{
		Name:     name,
		ParentId: parentId,
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	return res.Id
}

func TestFolderCreateAndListChildren(t *testing.T) {
	_, svc := newFolderTestService()
	ctx := context.Background()
	userId := uuid.New()

	rootId := mustCreateFolder(t, svc, userId, "Math", nil)
	childId := mustCreateFolder(t, svc, userId, "Algebra", &rootId)

	// Root level holds only the root folder.
	rootList, err := svc.ListChildren(ctx, userId, nil)
	require.NoError(t, err)
	require.NotNil(t, rootList)
	require.Len(t, rootList.Folders, 1)
	assert.Equal(t, rootId, rootList.Folders[0].Id)
	assert.Nil(t, rootList.Folders[0].ParentId)

	childList, err := svc.ListChildren(ctx, userId, &rootId)
	require.NoError(t, err)
	require.NotNil(t, childList)
	require.Len(t, childList.Folders, 1)
	assert.Equal(t, childId, childList.Folders[0].Id)
}

func TestFolderCreateRejectsEmptyName(t *testing.T) {
	_, svc := newFolderTestService()

	_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateFolderRequest{Name: "   "})
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestFolderCreateMissingParent(t *testing.T) {
	_, svc := newFolderTestService()

	missing := uuid.New()
	res, err := svc.Create(context.Background(), uuid.New(), &dto.CreateFolderRequest{
		Name:     "Orphan",
		ParentId: &missing,
	})
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestFolderCreateIgnoresOtherUsersParent(t *testing.T) {
	_, svc := newFolderTestService()
	owner := uuid.New()
	intruder := uuid.New()

	parentId := mustCreateFolder(t, svc, owner, "Private", nil)

	res, err := svc.Create(context.Background(), intruder, &dto.CreateFolderRequest{
		Name:     "Sneaky",
		ParentId: &parentId,
	})
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestFolderRenameEmptyName(t *testing.T) {
	_, svc := newFolderTestService()
	userId := uuid.New()
	id := mustCreateFolder(t, svc, userId, "Before", nil)

	_, err := svc.Rename(context.Background(), userId, &dto.RenameFolderRequest{Id: id, Name: ""})
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestFolderMoveIntoDescendantRejected(t *testing.T) {
	_, svc := newFolderTestService()
	ctx := context.Background()
	userId := uuid.New()

	a := mustCreateFolder(t, svc, userId, "A", nil)
	b := mustCreateFolder(t, svc, userId, "B", &a)
	c := mustCreateFolder(t, svc, userId, "C", &b)

	// A -> C would put A under its own grandchild.
	_, err := svc.Move(ctx, userId, &dto.MoveFolderRequest{Id: a, ParentId: &c})
	assert.ErrorIs(t, err, ErrCyclicMove)

	// A folder can never become its own parent.
	_, err = svc.Move(ctx, userId, &dto.MoveFolderRequest{Id: a, ParentId: &a})
	assert.ErrorIs(t, err, ErrCyclicMove)
}

func TestFolderMoveToRoot(t *testing.T) {
	_, svc := newFolderTestService()
	ctx := context.Background()
	userId := uuid.New()

	a := mustCreateFolder(t, svc, userId, "A", nil)
	b := mustCreateFolder(t, svc, userId, "B", &a)

	res, err := svc.Move(ctx, userId, &dto.MoveFolderRequest{Id: b, ParentId: nil})
	require.NoError(t, err)
	require.NotNil(t, res)

	rootList, err := svc.ListChildren(ctx, userId, nil)
	require.NoError(t, err)
	assert.Len(t, rootList.Folders, 2)
}

func TestFolderCascadeDelete(t *testing.T) {
	store, svc := newFolderTestService()
	ctx := context.Background()
	userId := uuid.New()

	a := mustCreateFolder(t, svc, userId, "A", nil)
	b := mustCreateFolder(t, svc, userId, "B", &a)
	sibling := mustCreateFolder(t, svc, userId, "Sibling", nil)

	genInB := seedGeneration(store, userId, &b, "Quiz")
	genInSibling := seedGeneration(store, userId, &sibling, "Keep me")
	seedEmbedding(store, genInB)
	seedEmbedding(store, genInSibling)

	require.NoError(t, svc.Delete(ctx, userId, a))

	tree, err := svc.GetTree(ctx, userId)
	require.NoError(t, err)
	require.Len(t, tree.Folders, 1)
	assert.Equal(t, sibling, tree.Folders[0].Id)
	require.Len(t, tree.Generations, 1)
	assert.Equal(t, genInSibling, tree.Generations[0].Id)

	assert.Len(t, embeddingsFor(store, genInB), 0)
	assert.Len(t, embeddingsFor(store, genInSibling), 1)
}

func TestFolderDeleteFailsClosed(t *testing.T) {
	store, svc := newFolderTestService()
	ctx := context.Background()
	userId := uuid.New()

	a := mustCreateFolder(t, svc, userId, "A", nil)
	b := mustCreateFolder(t, svc, userId, "B", &a)
	gen := seedGeneration(store, userId, &b, "Quiz")
	seedEmbedding(store, gen)

	store.FailGenerationDelete = true
	err := svc.Delete(ctx, userId, a)
	require.Error(t, err)

	// Nothing was removed, not even partially.
	tree, treeErr := svc.GetTree(ctx, userId)
	require.NoError(t, treeErr)
	assert.Len(t, tree.Folders, 2)
	assert.Len(t, tree.Generations, 1)
	assert.Len(t, embeddingsFor(store, gen), 1)
}

func TestFolderDeleteMissingIsNoop(t *testing.T) {
	_, svc := newFolderTestService()
	assert.NoError(t, svc.Delete(context.Background(), uuid.New(), uuid.New()))
}

func TestFolderLimitEnforced(t *testing.T) {
	store, svc := newFolderTestService()
	userId := uuid.New()

	seedActivePlan(store, userId, func(p *entity.SubscriptionPlan) {
		p.MaxFolders = 1
	})

	mustCreateFolder(t, svc, userId, "First", nil)

	_, err := svc.Create(context.Background(), userId, &dto.CreateFolderRequest{Name: "Second"})
	assert.ErrorIs(t, err, ErrFolderLimitReached)
}

func TestFolderLimitUnlimitedPlan(t *testing.T) {
	store, svc := newFolderTestService()
	userId := uuid.New()

	seedActivePlan(store, userId, func(p *entity.SubscriptionPlan) {
		p.MaxFolders = -1
	})

	for i := 0; i < 10; i++ {
		mustCreateFolder(t, svc, userId, "Folder", nil)
	}
}

// --- test fixtures ---

func seedGeneration(store *memory.Store, userId uuid.UUID, folderId *uuid.UUID, name string) uuid.UUID {
	id := uuid.New()
	store.Generations[id] = &entity.Generation{
		Id:          id,
		Name:        name,
		ContentType: "activity",
		Content:     []byte(`{"title":"t","questions":[{"number":1,"type":"open","text":"q"}]}`),
		FolderId:    folderId,
		UserId:      userId,
		CreatedAt:   time.Now(),
	}
	return id
}

func seedEmbedding(store *memory.Store, generationId uuid.UUID) uuid.UUID {
	id := uuid.New()
	store.Embeddings[id] = &entity.GenerationEmbedding{
		Id:             id,
		Document:       "chunk",
		EmbeddingValue: []float32{0.1, 0.2, 0.3},
		GenerationId:   generationId,
		CreatedAt:      time.Now(),
	}
	return id
}

func embeddingsFor(store *memory.Store, generationId uuid.UUID) []uuid.UUID {
	var out []uuid.UUID
	for id, e := range store.Embeddings {
		if e.GenerationId == generationId {
			out = append(out, id)
		}
	}
	return out
}

func seedActivePlan(store *memory.Store, userId uuid.UUID, mutate func(*entity.SubscriptionPlan)) uuid.UUID {
	plan := &entity.SubscriptionPlan{
		Id:                   uuid.New(),
		Name:                 "Test Plan",
		Slug:                 "test-plan",
		BillingPeriod:        entity.BillingPeriodMonthly,
		MaxFolders:           -1,
		GenerationDailyLimit: -1,
		IsActive:             true,
	}
	if mutate != nil {
		mutate(plan)
	}
	store.Plans[plan.Id] = plan

	subId := uuid.New()
	store.Subscriptions[subId] = &entity.UserSubscription{
		Id:                 subId,
		UserId:             userId,
		PlanId:             plan.Id,
		Status:             entity.SubscriptionStatusActive,
		PaymentStatus:      entity.PaymentStatusPaid,
		CurrentPeriodStart: time.Now().Add(-time.Hour),
		CurrentPeriodEnd:   time.Now().Add(30 * 24 * time.Hour),
		CreatedAt:          time.Now(),
	}
	return plan.Id
}
