package service

import (
	"context"

	"edugen-be/internal/dto"
	"edugen-be/internal/repository/specification"
	"edugen-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// IWatchService builds the snapshots the watch hub pushes to subscribers.
type IWatchService interface {
	BuildSnapshot(ctx context.Context, userId uuid.UUID, parentId *uuid.UUID, all bool) (*dto.WatchSnapshot, error)
}

type watchService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewWatchService(uowFactory unitofwork.RepositoryFactory) IWatchService {
	return &watchService{
		uowFactory: uowFactory,
	}
}

func (c *watchService) BuildSnapshot(ctx context.Context, userId uuid.UUID, parentId *uuid.UUID, all bool) (*dto.WatchSnapshot, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	folderSpecs := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "name"},
	}
	generationSpecs := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "name"},
	}
	if !all {
		folderSpecs = append(folderSpecs, specification.ByParentID{ParentID: parentId})
		generationSpecs = append(generationSpecs, specification.ByFolderID{FolderID: parentId})
	}

	folders, err := uow.FolderRepository().FindAll(ctx, folderSpecs...)
	if err != nil {
		return nil, err
	}

	generations, err := uow.GenerationRepository().FindAll(ctx, generationSpecs...)
	if err != nil {
		return nil, err
	}

	return &dto.WatchSnapshot{
		Type:        "snapshot",
		ParentId:    parentId,
		All:         all,
		Folders:     mapFolderItems(folders),
		Generations: mapGenerationItems(generations),
	}, nil
}
