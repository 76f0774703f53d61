package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Generation is a saved AI-generated material. Content holds the typed result
// payload as raw JSON; its schema is fixed by ContentType but the hierarchy
// layer treats it as opaque.
type Generation struct {
	Id          uuid.UUID
	Name        string
	ContentType string
	Content     json.RawMessage
	FolderId    *uuid.UUID // nil = root
	UserId      uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
