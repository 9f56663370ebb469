package index

import (
	"context"
	"fmt"
	"time"

	"moodmuse-be/internal/entity"
	"moodmuse-be/internal/repository/contract"
	"moodmuse-be/pkg/embedding"

	"github.com/google/uuid"
)

// PgVectorIndex persists the corpus in Postgres via pgvector. All mutations
// are durable at insertion time; reads may run concurrently with each other.
type PgVectorIndex struct {
	provider embedding.EmbeddingProvider
	chunks   contract.CorpusChunkRepository
}

func NewPgVectorIndex(provider embedding.EmbeddingProvider, chunks contract.CorpusChunkRepository) *PgVectorIndex {
	return &PgVectorIndex{
		provider: provider,
		chunks:   chunks,
	}
}

var _ Index = (*PgVectorIndex)(nil)

func (i *PgVectorIndex) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := i.provider.Generate(ctx, text, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}
	return res.Embedding.Values, nil
}

func (i *PgVectorIndex) Insert(ctx context.Context, id uuid.UUID, document string, metadata map[string]string, vector []float32) error {
	if document == "" {
		return fmt.Errorf("insert: document must not be empty")
	}

	chunk := &entity.CorpusChunk{
		Id:             id,
		Document:       document,
		Metadata:       metadata,
		ContentHash:    ContentHash(document, metadata),
		EmbeddingValue: vector,
		CreatedAt:      time.Now(),
	}

	return i.chunks.Create(ctx, chunk)
}

func (i *PgVectorIndex) Query(ctx context.Context, vector []float32, k int, filter map[string]string) ([]Result, error) {
	chunks, err := i.chunks.SearchSimilar(ctx, vector, k, filter)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(chunks))
	for n, c := range chunks {
		results[n] = Result{
			Document: c.Document,
			Metadata: c.Metadata,
		}
	}
	return results, nil
}

func (i *PgVectorIndex) QueryText(ctx context.Context, text string, k int, filter map[string]string) ([]Result, error) {
	vector, err := i.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return i.Query(ctx, vector, k, filter)
}
