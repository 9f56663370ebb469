// FILE: internal/dto/mood_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type AnalyzeMoodRequest struct {
	Text string `json:"text" validate:"required,min=2"`
}

type AnalyzeMoodResponse struct {
	EntryId         uuid.UUID `json:"entry_id"`
	MoodLabel       string    `json:"mood_label"`
	ColorPalette    []string  `json:"color_palette"`
	SpotifyPlaylist string    `json:"spotify_playlist"`
	Message         string    `json:"message"`
	CreatedAt       time.Time `json:"created_at"`
}

type MoodHistoryItem struct {
	EntryId         uuid.UUID `json:"entry_id"`
	Text            string    `json:"text"`
	MoodLabel       string    `json:"mood_label"`
	ColorPalette    []string  `json:"color_palette,omitempty"`
	SpotifyPlaylist string    `json:"spotify_playlist,omitempty"`
	Message         string    `json:"message,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type SemanticSearchResponse struct {
	MoodEntryId uuid.UUID `json:"mood_entry_id"`
	Document    string    `json:"document"`
}

// PublishEmbedEntryMessage is the payload sent over the in-process bus when a
// mood entry needs (re-)embedding.
type PublishEmbedEntryMessage struct {
	MoodEntryId uuid.UUID `json:"mood_entry_id"`
}
