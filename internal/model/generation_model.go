package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Generation struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string         `gorm:"type:varchar(255);not null"`
	ContentType string         `gorm:"type:varchar(50);not null;index"`
	Content     datatypes.JSON `gorm:"type:jsonb;not null"`
	FolderId    *uuid.UUID     `gorm:"type:uuid;index"`
	UserId      uuid.UUID      `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Generation) TableName() string {
	return "generations"
}
