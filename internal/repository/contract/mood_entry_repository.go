package contract

import (
	"context"
	"time"

	"moodmuse-be/internal/entity"
	"moodmuse-be/internal/repository/specification"

	"github.com/google/uuid"
)

// MoodCount is a mood label with its occurrence count over some window.
type MoodCount struct {
	MoodLabel string
	Count     int64
}

type MoodEntryRepository interface {
	Create(ctx context.Context, entry *entity.MoodEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MoodEntry, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MoodEntry, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// CountByLabelSince groups a user's entries created after the cutoff by
	// mood label, most frequent first.
	CountByLabelSince(ctx context.Context, userId uuid.UUID, since time.Time) ([]MoodCount, error)
}

type SuggestionRepository interface {
	Create(ctx context.Context, suggestion *entity.Suggestion) error
	FindByMoodEntryIds(ctx context.Context, moodEntryIds []uuid.UUID) ([]*entity.Suggestion, error)
}
