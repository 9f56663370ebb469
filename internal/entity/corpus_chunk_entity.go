// FILE: internal/entity/corpus_chunk_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

// CorpusChunk is one embedded fragment of the supportive-content corpus.
// Seq is assigned by the database and fixes insertion order for tie-breaks.
type CorpusChunk struct {
	Id             uuid.UUID
	Document       string
	Metadata       map[string]string
	ContentHash    string
	EmbeddingValue []float32
	Seq            int64
	CreatedAt      time.Time
}
