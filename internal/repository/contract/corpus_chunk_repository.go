package contract

import (
	"context"

	"moodmuse-be/internal/entity"
)

type CorpusChunkRepository interface {
	// Create inserts a chunk. A chunk whose content hash already exists is
	// silently skipped; a duplicate id is an error.
	Create(ctx context.Context, chunk *entity.CorpusChunk) error

	Count(ctx context.Context) (int64, error)

	// SearchSimilar returns up to k chunks nearest to the vector by cosine
	// distance, restricted to chunks whose metadata contains every filter
	// key with exactly the given value. Ties resolve by insertion order.
	SearchSimilar(ctx context.Context, vector []float32, k int, filter map[string]string) ([]*entity.CorpusChunk, error)
}
