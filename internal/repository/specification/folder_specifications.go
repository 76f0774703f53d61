package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByParentID filters folders by their parent. A nil parent selects root-level
// folders.
type ByParentID struct {
	ParentID *uuid.UUID
}

func (s ByParentID) Apply(db *gorm.DB) *gorm.DB {
	if s.ParentID == nil {
		return db.Where("parent_id IS NULL")
	}
	return db.Where("parent_id = ?", s.ParentID)
}

// ByParentIDs selects folders whose parent is any of the given ids.
type ByParentIDs struct {
	ParentIDs []uuid.UUID
}

func (s ByParentIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("parent_id IN ?", s.ParentIDs)
}
