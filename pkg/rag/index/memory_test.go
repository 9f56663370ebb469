package index

import (
	"context"
	"testing"

	"moodmuse-be/pkg/embedding"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider maps each text deterministically onto a small vector so tests
// can steer similarity without a live embedding model.
type fakeProvider struct {
	vectors map[string][]float32
}

func (f *fakeProvider) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	vec, ok := f.vectors[text]
	if !ok {
		vec = []float32{1, 0, 0}
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: vec},
	}, nil
}

func newTestIndex() *MemoryIndex {
	return NewMemoryIndex(&fakeProvider{vectors: map[string][]float32{}})
}

func TestQueryConjunctiveFilter(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex()

	v := []float32{1, 0, 0}
	require.NoError(t, idx.Insert(ctx, uuid.New(), "sad example", map[string]string{MetaKind: KindExample, MetaEmotion: "üzgün"}, v))
	require.NoError(t, idx.Insert(ctx, uuid.New(), "happy example", map[string]string{MetaKind: KindExample, MetaEmotion: "mutlu"}, v))
	require.NoError(t, idx.Insert(ctx, uuid.New(), "sad evidence", map[string]string{MetaKind: KindEvidence, MetaEmotion: "üzgün"}, v))

	results, err := idx.Query(ctx, v, 10, map[string]string{MetaKind: KindExample, MetaEmotion: "üzgün"})
	require.NoError(t, err)

	// Only the record matching BOTH keys may appear.
	require.Len(t, results, 1)
	assert.Equal(t, "sad example", results[0].Document)
}

func TestQueryNoMatchReturnsEmpty(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex()

	require.NoError(t, idx.Insert(ctx, uuid.New(), "doc", map[string]string{MetaKind: KindEvidence}, []float32{1, 0, 0}))

	results, err := idx.Query(ctx, []float32{1, 0, 0}, 5, map[string]string{MetaKind: KindStyle})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestQueryRanksByDistance(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex()

	require.NoError(t, idx.Insert(ctx, uuid.New(), "far", map[string]string{MetaKind: KindEvidence}, []float32{0, 1, 0}))
	require.NoError(t, idx.Insert(ctx, uuid.New(), "near", map[string]string{MetaKind: KindEvidence}, []float32{1, 0.1, 0}))
	require.NoError(t, idx.Insert(ctx, uuid.New(), "exact", map[string]string{MetaKind: KindEvidence}, []float32{1, 0, 0}))

	results, err := idx.Query(ctx, []float32{1, 0, 0}, 2, map[string]string{MetaKind: KindEvidence})
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "exact", results[0].Document)
	assert.Equal(t, "near", results[1].Document)
}

func TestQueryTieBreakByInsertionOrder(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex()

	// Identical vectors: distance ties must resolve first-inserted-first.
	v := []float32{1, 0, 0}
	require.NoError(t, idx.Insert(ctx, uuid.New(), "first", map[string]string{MetaKind: KindEvidence}, v))
	require.NoError(t, idx.Insert(ctx, uuid.New(), "second", map[string]string{MetaKind: KindEvidence}, v))
	require.NoError(t, idx.Insert(ctx, uuid.New(), "third", map[string]string{MetaKind: KindEvidence}, v))

	results, err := idx.Query(ctx, v, 2, map[string]string{MetaKind: KindEvidence})
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "first", results[0].Document)
	assert.Equal(t, "second", results[1].Document)
}

func TestInsertDuplicateIdRejected(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex()

	id := uuid.New()
	require.NoError(t, idx.Insert(ctx, id, "one", map[string]string{MetaKind: KindEvidence}, []float32{1, 0, 0}))
	err := idx.Insert(ctx, id, "two", map[string]string{MetaKind: KindEvidence}, []float32{0, 1, 0})
	assert.Error(t, err)
}

func TestInsertContentHashDedup(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex()

	meta := map[string]string{MetaKind: KindEvidence, MetaEmotion: EmotionNone, MetaSource: "kaynak.txt"}
	v := []float32{1, 0, 0}
	require.NoError(t, idx.Insert(ctx, uuid.New(), "aynı metin", meta, v))
	require.NoError(t, idx.Insert(ctx, uuid.New(), "aynı metin", meta, v))

	results, err := idx.Query(ctx, v, 10, map[string]string{MetaKind: KindEvidence})
	require.NoError(t, err)
	assert.Len(t, results, 1, "re-ingesting an identical chunk must not duplicate it")
}

func TestContentHashSensitivity(t *testing.T) {
	metaA := map[string]string{MetaKind: KindEvidence, MetaSource: "a.txt"}
	metaB := map[string]string{MetaKind: KindEvidence, MetaSource: "b.txt"}

	assert.Equal(t, ContentHash("metin", metaA), ContentHash("metin", metaA))
	assert.NotEqual(t, ContentHash("metin", metaA), ContentHash("metin", metaB))
	assert.NotEqual(t, ContentHash("metin", metaA), ContentHash("başka", metaA))
}
