// FILE: internal/entity/mood_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

// MoodEntry is one journal submission with its inferred mood label.
type MoodEntry struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Text      string
	MoodLabel string
	CreatedAt time.Time
}

// Suggestion holds everything generated for one mood entry.
type Suggestion struct {
	Id           uuid.UUID
	MoodEntryId  uuid.UUID
	ColorPalette []string
	PlaylistURL  string
	Message      string
	CreatedAt    time.Time
}
