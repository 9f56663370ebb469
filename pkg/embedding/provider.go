package embedding

import "context"

// EmbeddingProvider defines the interface for generating text embeddings.
// Implementations must be deterministic for a fixed model version: the same
// text always yields the same vector. Failures are returned to the caller,
// never papered over with zero vectors.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error)
}

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}
