package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"edugen-be/internal/dto"
	"edugen-be/internal/entity"
	"edugen-be/internal/pkg/logger"
	"edugen-be/internal/repository/specification"
	"edugen-be/internal/repository/unitofwork"
	"edugen-be/pkg/events"
	pktNats "edugen-be/pkg/nats"

	"github.com/google/uuid"
)

var (
	ErrEmptyName          = errors.New("name must not be empty")
	ErrCyclicMove         = errors.New("cannot move a folder into itself or one of its descendants")
	ErrFolderLimitReached = errors.New("folder limit for the current plan reached")
	ErrTreeTooDeep        = errors.New("folder tree exceeds maximum depth")
)

// maxTreeDepth bounds the cascade traversal; a legitimate tree never gets
// close, so hitting it means a corrupted parent chain.
const maxTreeDepth = 64

// IWatchNotifier is implemented by the watch hub. Hierarchy mutations call it
// so subscribed clients receive a fresh snapshot.
type IWatchNotifier interface {
	NotifyHierarchyChanged(ctx context.Context, userId uuid.UUID)
}

type IFolderService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateFolderRequest) (*dto.CreateFolderResponse, error)
	GetTree(ctx context.Context, userId uuid.UUID) (*dto.GetTreeResponse, error)
	ListChildren(ctx context.Context, userId uuid.UUID, parentId *uuid.UUID) (*dto.ListChildrenResponse, error)
	Rename(ctx context.Context, userId uuid.UUID, req *dto.RenameFolderRequest) (*dto.RenameFolderResponse, error)
	Move(ctx context.Context, userId uuid.UUID, req *dto.MoveFolderRequest) (*dto.MoveFolderResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type folderService struct {
	uowFactory     unitofwork.RepositoryFactory
	watchNotifier  IWatchNotifier
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewFolderService(
	uowFactory unitofwork.RepositoryFactory,
	watchNotifier IWatchNotifier,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IFolderService {
	return &folderService{
		uowFactory:     uowFactory,
		watchNotifier:  watchNotifier,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (c *folderService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateFolderRequest) (*dto.CreateFolderResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)

	if req.ParentId != nil {
		parent, err := uow.FolderRepository().FindOne(ctx,
			specification.ByID{ID: *req.ParentId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, nil // Parent not found
		}
	}

	if err := c.checkFolderLimit(ctx, uow, userId); err != nil {
		return nil, err
	}

	folder := entity.Folder{
		Id:        uuid.New(),
		Name:      req.Name,
		ParentId:  req.ParentId,
		UserId:    userId,
		CreatedAt: time.Now(),
	}

	if err := uow.FolderRepository().Create(ctx, &folder); err != nil {
		return nil, err
	}

	c.afterMutation(ctx, userId, "FOLDER_CREATED", map[string]interface{}{
		"folder_id": folder.Id,
		"name":      folder.Name,
	})

	return &dto.CreateFolderResponse{
		Id: folder.Id,
	}, nil
}

// checkFolderLimit enforces the active plan's folder cap. No active
// subscription or a non-positive cap means unlimited.
func (c *folderService) checkFolderLimit(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) error {
	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.Filter("status", entity.SubscriptionStatusActive),
	)
	if err != nil {
		return err
	}
	if sub == nil {
		return nil
	}

	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: sub.PlanId})
	if err != nil {
		return err
	}
	if plan == nil || plan.MaxFolders <= 0 {
		return nil
	}

	count, err := uow.FolderRepository().Count(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return err
	}
	if count >= int64(plan.MaxFolders) {
		return ErrFolderLimitReached
	}
	return nil
}

func (c *folderService) GetTree(ctx context.Context, userId uuid.UUID) (*dto.GetTreeResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	folders, err := uow.FolderRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	generations, err := uow.GenerationRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	return &dto.GetTreeResponse{
		Folders:     mapFolderItems(folders),
		Generations: mapGenerationItems(generations),
	}, nil
}

func (c *folderService) ListChildren(ctx context.Context, userId uuid.UUID, parentId *uuid.UUID) (*dto.ListChildrenResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	if parentId != nil {
		parent, err := uow.FolderRepository().FindOne(ctx,
			specification.ByID{ID: *parentId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, nil // Parent not found
		}
	}

	folders, err := uow.FolderRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByParentID{ParentID: parentId},
		specification.OrderBy{Field: "name"},
	)
	if err != nil {
		return nil, err
	}

	generations, err := uow.GenerationRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByFolderID{FolderID: parentId},
		specification.OrderBy{Field: "name"},
	)
	if err != nil {
		return nil, err
	}

	return &dto.ListChildrenResponse{
		Folders:     mapFolderItems(folders),
		Generations: mapGenerationItems(generations),
	}, nil
}

func (c *folderService) Rename(ctx context.Context, userId uuid.UUID, req *dto.RenameFolderRequest) (*dto.RenameFolderResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)

	folder, err := uow.FolderRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, nil
	}

	if folder.Name == req.Name {
		// No-op rename, skip the write.
		return &dto.RenameFolderResponse{Id: folder.Id}, nil
	}

	now := time.Now()
	folder.Name = req.Name
	folder.UpdatedAt = &now

	if err := uow.FolderRepository().Update(ctx, folder); err != nil {
		return nil, err
	}

	c.afterMutation(ctx, userId, "FOLDER_RENAMED", map[string]interface{}{
		"folder_id": folder.Id,
		"name":      folder.Name,
	})

	return &dto.RenameFolderResponse{
		Id: folder.Id,
	}, nil
}

func (c *folderService) Move(ctx context.Context, userId uuid.UUID, req *dto.MoveFolderRequest) (*dto.MoveFolderResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	folder, err := uow.FolderRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, nil
	}

	if req.ParentId != nil {
		if *req.ParentId == folder.Id {
			return nil, ErrCyclicMove
		}

		parent, err := uow.FolderRepository().FindOne(ctx,
			specification.ByID{ID: *req.ParentId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, nil // Destination not found
		}

		// Walk the destination's ancestry; finding the moved folder there
		// means the move would create a cycle.
		cyclic, err := c.isDescendantOf(ctx, uow, userId, *req.ParentId, folder.Id)
		if err != nil {
			return nil, err
		}
		if cyclic {
			return nil, ErrCyclicMove
		}
	}

	now := time.Now()
	folder.ParentId = req.ParentId
	folder.UpdatedAt = &now

	if err := uow.FolderRepository().Update(ctx, folder); err != nil {
		return nil, err
	}

	c.afterMutation(ctx, userId, "FOLDER_MOVED", map[string]interface{}{
		"folder_id": folder.Id,
	})

	return &dto.MoveFolderResponse{
		Id: folder.Id,
	}, nil
}

// isDescendantOf reports whether ancestor appears in the parent chain of
// start (start included).
func (c *folderService) isDescendantOf(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, start, ancestor uuid.UUID) (bool, error) {
	currentId := &start
	for depth := 0; currentId != nil; depth++ {
		if depth > maxTreeDepth {
			return false, ErrTreeTooDeep
		}
		if *currentId == ancestor {
			return true, nil
		}
		node, err := uow.FolderRepository().FindOne(ctx,
			specification.ByID{ID: *currentId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return false, err
		}
		if node == nil {
			break // Orphaned reference, treat as root
		}
		currentId = node.ParentId
	}
	return false, nil
}

// Delete removes a folder and everything beneath it: descendant folders,
// their generations and the generations' embeddings. Traversal and deletes
// run in one transaction; any error before the commit leaves the tree
// untouched.
func (c *folderService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	folder, err := uow.FolderRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if folder == nil {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	folderIds, err := c.collectSubtree(ctx, uow, userId, id)
	if err != nil {
		return err
	}

	generations, err := uow.GenerationRepository().FindAll(ctx,
		specification.ByFolderIDs{FolderIDs: folderIds},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}

	generationIds := make([]uuid.UUID, 0, len(generations))
	for _, g := range generations {
		generationIds = append(generationIds, g.Id)
	}

	// Traversal is complete; start deleting.
	if len(generationIds) > 0 {
		if err := uow.GenerationEmbeddingRepository().DeleteByGenerationIds(ctx, generationIds); err != nil {
			return err
		}
		if err := uow.GenerationRepository().DeleteMany(ctx, generationIds); err != nil {
			return err
		}
	}

	if err := uow.FolderRepository().DeleteMany(ctx, folderIds); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	c.afterMutation(ctx, userId, "FOLDER_DELETED", map[string]interface{}{
		"folder_id":   id,
		"folders":     len(folderIds),
		"generations": len(generationIds),
	})

	return nil
}

// collectSubtree gathers the ids of the folder and all its descendants with
// an iterative breadth-first walk. The queue is explicit, levels are bounded
// by maxTreeDepth.
func (c *folderService) collectSubtree(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, rootId uuid.UUID) ([]uuid.UUID, error) {
	collected := []uuid.UUID{rootId}
	seen := map[uuid.UUID]bool{rootId: true}
	frontier := []uuid.UUID{rootId}

	for depth := 0; len(frontier) > 0; depth++ {
		if depth > maxTreeDepth {
			return nil, ErrTreeTooDeep
		}

		children, err := uow.FolderRepository().FindAll(ctx,
			specification.ByParentIDs{ParentIDs: frontier},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}

		frontier = frontier[:0]
		for _, child := range children {
			if seen[child.Id] {
				return nil, fmt.Errorf("folder %s appears twice in the tree", child.Id)
			}
			seen[child.Id] = true
			collected = append(collected, child.Id)
			frontier = append(frontier, child.Id)
		}
	}

	return collected, nil
}

func (c *folderService) afterMutation(ctx context.Context, userId uuid.UUID, eventType string, data map[string]interface{}) {
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
			c.logger.Warn("FolderService", "Failed to publish event", map[string]interface{}{
				"type":  eventType,
				"error": err.Error(),
			})
		}
	}
}

func mapFolderItems(folders []*entity.Folder) []*dto.FolderItem {
	items := make([]*dto.FolderItem, 0, len(folders))
	for _, f := range folders {
		items = append(items, &dto.FolderItem{
			Id:        f.Id,
			Name:      f.Name,
			ParentId:  f.ParentId,
			CreatedAt: f.CreatedAt,
			UpdatedAt: f.UpdatedAt,
		})
	}
	return items
}

func mapGenerationItems(generations []*entity.Generation) []*dto.GenerationItem {
	items := make([]*dto.GenerationItem, 0, len(generations))
	for _, g := range generations {
		items = append(items, &dto.GenerationItem{
			Id:          g.Id,
			Name:        g.Name,
			ContentType: g.ContentType,
			FolderId:    g.FolderId,
			CreatedAt:   g.CreatedAt,
			UpdatedAt:   g.UpdatedAt,
		})
	}
	return items
}
