package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"moodmuse-be/internal/pkg/logger"
	"moodmuse-be/pkg/embedding"
	"moodmuse-be/pkg/rag/index"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct{}

func (stubProvider) Generate(_ context.Context, text string, _ string) (*embedding.EmbeddingResponse, error) {
	// Deterministic tiny vector so the memory index accepts it.
	v := float32(len([]rune(text)))
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{v, 1}},
	}, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }
func (nopLogger) GetLogs(string, int, int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (nopLogger) GetLogById(string) (*logger.LogEntry, error) { return nil, nil }

func TestIngestFolderSingleShortDocument(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "nefes.txt"), []byte("Nefes almak sakinleştirir."), 0o644)
	require.NoError(t, err)

	idx := index.NewMemoryIndex(stubProvider{})
	p := NewPipeline(stubProvider{}, idx, nopLogger{})

	require.NoError(t, p.IngestFolder(context.Background(), dir))

	results, err := idx.QueryText(context.Background(), "nefes", 10, map[string]string{
		index.MetaKind: index.KindEvidence,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Nefes almak sakinleştirir.", results[0].Document)
	assert.Equal(t, "nefes.txt", results[0].Metadata[index.MetaSource])
	assert.Equal(t, index.EmotionNone, results[0].Metadata[index.MetaEmotion])
}

func TestIngestFolderChunksLongDocument(t *testing.T) {
	dir := t.TempDir()
	long := make([]rune, 0, 1200)
	for i := 0; i < 1200; i++ {
		long = append(long, rune('a'+i%26))
	}
	err := os.WriteFile(filepath.Join(dir, "long.txt"), []byte(string(long)), 0o644)
	require.NoError(t, err)

	idx := index.NewMemoryIndex(stubProvider{})
	p := NewPipeline(stubProvider{}, idx, nopLogger{})

	require.NoError(t, p.IngestFolder(context.Background(), dir))

	results, err := idx.QueryText(context.Background(), "q", 20, map[string]string{
		index.MetaSource: "long.txt",
	})
	require.NoError(t, err)
	assert.Greater(t, len(results), 1)
	for _, r := range results {
		assert.LessOrEqual(t, len([]rune(r.Document)), ChunkSize)
	}
}

func TestIngestFolderSkipsEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.txt"), []byte("   \n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.txt"), []byte("İçerik var."), 0o644))

	idx := index.NewMemoryIndex(stubProvider{})
	p := NewPipeline(stubProvider{}, idx, nopLogger{})

	require.NoError(t, p.IngestFolder(context.Background(), dir))

	results, err := idx.QueryText(context.Background(), "q", 10, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ok.txt", results[0].Metadata[index.MetaSource])
}

func TestIngestFolderDeduplicatesRepeatedContent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("Aynı içerik."), 0o644))

	idx := index.NewMemoryIndex(stubProvider{})
	p := NewPipeline(stubProvider{}, idx, nopLogger{})

	require.NoError(t, p.IngestFolder(context.Background(), dir))
	require.NoError(t, p.IngestFolder(context.Background(), dir))

	results, err := idx.QueryText(context.Background(), "q", 10, nil)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestIngestExemplars(t *testing.T) {
	dir := t.TempDir()
	payload := `[
		{"kind": "style", "text": "Kısa ve yargısız konuş."},
		{"kind": "example", "emotion": "üzgün", "text": "Bugün biraz ağır hissettim."}
	]`
	path := filepath.Join(dir, "exemplars.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	idx := index.NewMemoryIndex(stubProvider{})
	p := NewPipeline(stubProvider{}, idx, nopLogger{})

	require.NoError(t, p.IngestExemplars(context.Background(), path))

	styles, err := idx.QueryText(context.Background(), "q", 10, map[string]string{
		index.MetaKind: index.KindStyle,
	})
	require.NoError(t, err)
	require.Len(t, styles, 1)
	assert.Equal(t, index.EmotionNone, styles[0].Metadata[index.MetaEmotion])

	examples, err := idx.QueryText(context.Background(), "q", 10, map[string]string{
		index.MetaKind:    index.KindExample,
		index.MetaEmotion: "üzgün",
	})
	require.NoError(t, err)
	require.Len(t, examples, 1)
}

func TestIngestExemplarsRejectsEvidenceKind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"kind": "evidence", "text": "x"}]`), 0o644))

	p := NewPipeline(stubProvider{}, index.NewMemoryIndex(stubProvider{}), nopLogger{})
	err := p.IngestExemplars(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("%q or %q", index.KindStyle, index.KindExample))
}
