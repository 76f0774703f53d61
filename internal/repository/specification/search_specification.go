package specification

import "gorm.io/gorm"

// GenerationSearchQuery filters generations by name, case-insensitive.
type GenerationSearchQuery struct {
	Query string
}

func (s GenerationSearchQuery) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where("name ILIKE ?", pattern)
}
