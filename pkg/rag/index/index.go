package index

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Metadata keys shared by every chunk stored in the index.
const (
	MetaKind    = "kind"
	MetaEmotion = "emotion"
	MetaSource  = "source"
)

// Chunk kinds. Style exemplars steer tone, examples are emotion-specific
// sample outputs, evidence is generic supporting context.
const (
	KindStyle    = "style"
	KindExample  = "example"
	KindEvidence = "evidence"
)

// EmotionNone tags chunks that carry no emotion association. Stored as the
// literal string "null" so single-key equality filters stay exact-match.
const EmotionNone = "null"

// Result is one similarity hit: the stored chunk text plus its metadata.
type Result struct {
	Document string
	Metadata map[string]string
}

// Index is the embedding index over the corpus. Records are append-only and
// durable at insert; queries are safe for concurrent use. Ingestion is
// expected to run out-of-band from live query traffic.
type Index interface {
	// Embed converts text to a vector via the configured embedding model.
	// Deterministic for a fixed model; failures propagate to the caller.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Insert appends one record. Ids must be unique; inserting a chunk whose
	// content hash already exists is a silent no-op (re-ingestion dedup).
	Insert(ctx context.Context, id uuid.UUID, document string, metadata map[string]string, vector []float32) error

	// Query returns up to k records nearest to the vector, restricted to
	// records whose metadata matches every filter key exactly (implicit AND).
	// Distance ties are broken by insertion order. A filter matching nothing
	// yields an empty slice, not an error.
	Query(ctx context.Context, vector []float32, k int, filter map[string]string) ([]Result, error)

	// QueryText embeds the text and runs Query with the resulting vector.
	QueryText(ctx context.Context, text string, k int, filter map[string]string) ([]Result, error)
}

// ContentHash fingerprints a chunk by its text plus metadata so re-ingesting
// the same corpus does not duplicate records and skew retrieval ranking.
func ContentHash(document string, metadata map[string]string) string {
	h := sha256.New()
	h.Write([]byte(document))

	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(h, "\x00%s\x00%s", k, metadata[k])
	}

	return fmt.Sprintf("%x", h.Sum(nil))
}
