package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MoodEntry struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Text      string         `gorm:"type:text;not null"`
	MoodLabel string         `gorm:"type:varchar(50);not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (MoodEntry) TableName() string {
	return "mood_entries"
}

type Suggestion struct {
	Id           uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MoodEntryId  uuid.UUID                   `gorm:"type:uuid;not null;index"`
	ColorPalette datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	PlaylistURL  string                      `gorm:"type:text"`
	Message      string                      `gorm:"type:text"`
	CreatedAt    time.Time                   `gorm:"autoCreateTime"`
}

func (Suggestion) TableName() string {
	return "suggestions"
}
