package entity

import (
	"time"

	"github.com/google/uuid"
)

// Folder is a named container in a user's hierarchy. A nil ParentId means the
// folder sits at the root of that user's tree.
type Folder struct {
	Id        uuid.UUID
	Name      string
	ParentId  *uuid.UUID
	UserId    uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
