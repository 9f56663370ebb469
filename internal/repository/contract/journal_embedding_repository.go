package contract

import (
	"context"

	"moodmuse-be/internal/entity"

	"github.com/google/uuid"
)

type JournalEmbeddingRepository interface {
	CreateBulk(ctx context.Context, embeddings []*entity.JournalEmbedding) error
	DeleteByMoodEntryId(ctx context.Context, moodEntryId uuid.UUID) error

	// SearchSimilar scopes results to the given user's own entries.
	SearchSimilar(ctx context.Context, embedding []float32, limit int, userId uuid.UUID) ([]*entity.JournalEmbedding, error)
}
