package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"moodmuse-be/pkg/embedding"

	"github.com/google/uuid"
)

type memoryRecord struct {
	id       uuid.UUID
	document string
	metadata map[string]string
	vector   []float32
	seq      int
}

// MemoryIndex is an in-process Index implementation backed by a slice. It
// mirrors the pgvector contract (cosine distance, conjunctive metadata
// filters, insertion-order tie-break, content-hash dedup) and supports
// concurrent queries. Used by tests and small single-node deployments.
type MemoryIndex struct {
	provider embedding.EmbeddingProvider

	mu      sync.RWMutex
	records []memoryRecord
	ids     map[uuid.UUID]struct{}
	hashes  map[string]struct{}
	nextSeq int
}

func NewMemoryIndex(provider embedding.EmbeddingProvider) *MemoryIndex {
	return &MemoryIndex{
		provider: provider,
		ids:      make(map[uuid.UUID]struct{}),
		hashes:   make(map[string]struct{}),
	}
}

var _ Index = (*MemoryIndex)(nil)

func (i *MemoryIndex) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := i.provider.Generate(ctx, text, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}
	return res.Embedding.Values, nil
}

func (i *MemoryIndex) Insert(ctx context.Context, id uuid.UUID, document string, metadata map[string]string, vector []float32) error {
	if document == "" {
		return fmt.Errorf("insert: document must not be empty")
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if _, exists := i.ids[id]; exists {
		return fmt.Errorf("insert: duplicate id %s", id)
	}

	hash := ContentHash(document, metadata)
	if _, exists := i.hashes[hash]; exists {
		// Same chunk already ingested; keep the index stable.
		return nil
	}

	meta := make(map[string]string, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}

	i.records = append(i.records, memoryRecord{
		id:       id,
		document: document,
		metadata: meta,
		vector:   vector,
		seq:      i.nextSeq,
	})
	i.ids[id] = struct{}{}
	i.hashes[hash] = struct{}{}
	i.nextSeq++

	return nil
}

func (i *MemoryIndex) Query(ctx context.Context, vector []float32, k int, filter map[string]string) ([]Result, error) {
	if k <= 0 {
		return []Result{}, nil
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	type scored struct {
		rec  memoryRecord
		dist float64
	}

	var candidates []scored
	for _, rec := range i.records {
		if !matchesFilter(rec.metadata, filter) {
			continue
		}
		candidates = append(candidates, scored{
			rec:  rec,
			dist: cosineDistance(vector, rec.vector),
		})
	}

	// Closest first; equal distances fall back to insertion order to keep
	// results stable across runs.
	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].dist != candidates[b].dist {
			return candidates[a].dist < candidates[b].dist
		}
		return candidates[a].rec.seq < candidates[b].rec.seq
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	results := make([]Result, len(candidates))
	for n, c := range candidates {
		meta := make(map[string]string, len(c.rec.metadata))
		for key, v := range c.rec.metadata {
			meta[key] = v
		}
		results[n] = Result{
			Document: c.rec.document,
			Metadata: meta,
		}
	}
	return results, nil
}

func (i *MemoryIndex) QueryText(ctx context.Context, text string, k int, filter map[string]string) ([]Result, error) {
	vector, err := i.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return i.Query(ctx, vector, k, filter)
}

// matchesFilter applies exact-match equality per key; all keys must match
// simultaneously (implicit AND).
func matchesFilter(metadata, filter map[string]string) bool {
	for k, want := range filter {
		if got, ok := metadata[k]; !ok || got != want {
			return false
		}
	}
	return true
}

func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.MaxFloat64
	}

	var dot, magA, magB float64
	for n := range a {
		dot += float64(a[n]) * float64(b[n])
		magA += float64(a[n]) * float64(a[n])
		magB += float64(b[n]) * float64(b[n])
	}
	if magA == 0 || magB == 0 {
		return math.MaxFloat64
	}
	return 1 - dot/(math.Sqrt(magA)*math.Sqrt(magB))
}
