// FILE: internal/entity/journal_embedding_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

// JournalEmbedding is one embedded chunk of a user's mood entry, used for
// semantic search over their own history.
type JournalEmbedding struct {
	Id             uuid.UUID
	Document       string
	EmbeddingValue []float32
	MoodEntryId    uuid.UUID
	ChunkIndex     int
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
