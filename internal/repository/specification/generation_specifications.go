package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByFolderID filters generations by containing folder. nil = root level.
type ByFolderID struct {
	FolderID *uuid.UUID
}

func (s ByFolderID) Apply(db *gorm.DB) *gorm.DB {
	if s.FolderID == nil {
		return db.Where("folder_id IS NULL")
	}
	return db.Where("folder_id = ?", s.FolderID)
}

type ByFolderIDs struct {
	FolderIDs []uuid.UUID
}

func (s ByFolderIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("folder_id IN ?", s.FolderIDs)
}

type ByContentType struct {
	ContentType string
}

func (s ByContentType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("content_type = ?", s.ContentType)
}
