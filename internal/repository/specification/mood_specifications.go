package specification

import (
	"time"

	"gorm.io/gorm"
)

type CreatedAfter struct {
	After time.Time
}

func (s CreatedAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at > ?", s.After)
}

type ByMoodLabel struct {
	Label string
}

func (s ByMoodLabel) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("mood_label = ?", s.Label)
}
