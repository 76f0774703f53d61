package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateFolderRequest struct {
	Name     string     `json:"name" validate:"required"`
	ParentId *uuid.UUID `json:"parent_id"` // nil = root level
}

type CreateFolderResponse struct {
	Id uuid.UUID `json:"id"`
}

type FolderItem struct {
	Id        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	ParentId  *uuid.UUID `json:"parent_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type RenameFolderRequest struct {
	Id   uuid.UUID
	Name string `json:"name" validate:"required"`
}

type RenameFolderResponse struct {
	Id uuid.UUID `json:"id"`
}

type MoveFolderRequest struct {
	Id       uuid.UUID
	ParentId *uuid.UUID `json:"parent_id"` // nil moves to root
}

type MoveFolderResponse struct {
	Id uuid.UUID `json:"id"`
}

// ListChildrenResponse is one level of the hierarchy.
type ListChildrenResponse struct {
	Folders     []*FolderItem     `json:"folders"`
	Generations []*GenerationItem `json:"generations"`
}

// GetTreeResponse is the whole hierarchy for the sidebar.
type GetTreeResponse struct {
	Folders     []*FolderItem     `json:"folders"`
	Generations []*GenerationItem `json:"generations"`
}
