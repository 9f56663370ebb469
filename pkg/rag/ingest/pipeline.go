package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"moodmuse-be/internal/pkg/logger"
	"moodmuse-be/pkg/embedding"
	"moodmuse-be/pkg/rag/index"
	"moodmuse-be/pkg/utils"

	"github.com/google/uuid"
)

// Chunk window geometry for corpus documents.
// ChunkSize 500 runes with 120 runes of overlap keeps one or two sentences of
// shared context between consecutive windows.
const (
	ChunkSize    = 500
	ChunkOverlap = 120
)

// Pipeline turns a folder of source documents into embedded corpus chunks.
// Ingestion runs offline, out-of-band from live query traffic.
type Pipeline struct {
	provider embedding.EmbeddingProvider
	index    index.Index
	logger   logger.ILogger
}

func NewPipeline(provider embedding.EmbeddingProvider, idx index.Index, log logger.ILogger) *Pipeline {
	return &Pipeline{
		provider: provider,
		index:    idx,
		logger:   log,
	}
}

// IngestFolder enumerates every file under root recursively, extracts its
// text, chunks it, and stores each chunk tagged as generic evidence. A single
// file that fails extraction is logged and skipped; embedding or storage
// failures abort the run since nothing useful can be ingested without them.
func (p *Pipeline) IngestFolder(ctx context.Context, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		text, extractErr := ExtractText(path)
		if extractErr != nil {
			p.logger.Warn("ingest", "Skipping unreadable document", map[string]interface{}{
				"file":  filepath.Base(path),
				"error": extractErr.Error(),
			})
			return nil
		}
		if strings.TrimSpace(text) == "" {
			p.logger.Warn("ingest", "Document produced no text", map[string]interface{}{
				"file": filepath.Base(path),
			})
			return nil
		}

		metadata := map[string]string{
			index.MetaKind:    index.KindEvidence,
			index.MetaEmotion: index.EmotionNone,
			index.MetaSource:  filepath.Base(path),
		}

		count, err := p.ingestDocument(ctx, text, metadata)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", filepath.Base(path), err)
		}

		p.logger.Info("ingest", "Document ingested", map[string]interface{}{
			"file":   filepath.Base(path),
			"chunks": count,
		})
		return nil
	})
}

// Exemplar is one seeded style or example snippet. Emotion is optional and
// only meaningful for example snippets.
type Exemplar struct {
	Kind    string `json:"kind"`
	Emotion string `json:"emotion,omitempty"`
	Text    string `json:"text"`
	Source  string `json:"source,omitempty"`
}

// IngestExemplars loads a JSON array of style/example snippets so the
// retriever's style and example categories have content to match. Evidence
// belongs in regular documents, not here.
func (p *Pipeline) IngestExemplars(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read exemplars: %w", err)
	}

	var exemplars []Exemplar
	if err := json.Unmarshal(raw, &exemplars); err != nil {
		return fmt.Errorf("parse exemplars: %w", err)
	}

	for n, ex := range exemplars {
		if ex.Kind != index.KindStyle && ex.Kind != index.KindExample {
			return fmt.Errorf("exemplar %d: kind %q must be %q or %q", n, ex.Kind, index.KindStyle, index.KindExample)
		}
		if strings.TrimSpace(ex.Text) == "" {
			return fmt.Errorf("exemplar %d: text must not be empty", n)
		}

		emotion := ex.Emotion
		if emotion == "" {
			emotion = index.EmotionNone
		}
		source := ex.Source
		if source == "" {
			source = filepath.Base(path)
		}

		metadata := map[string]string{
			index.MetaKind:    ex.Kind,
			index.MetaEmotion: emotion,
			index.MetaSource:  source,
		}

		if _, err := p.ingestDocument(ctx, ex.Text, metadata); err != nil {
			return fmt.Errorf("exemplar %d: %w", n, err)
		}
	}

	p.logger.Info("ingest", "Exemplars ingested", map[string]interface{}{
		"file":  filepath.Base(path),
		"count": len(exemplars),
	})
	return nil
}

func (p *Pipeline) ingestDocument(ctx context.Context, text string, metadata map[string]string) (int, error) {
	chunks, err := utils.SplitText(text, ChunkSize, ChunkOverlap)
	if err != nil {
		return 0, err
	}

	for _, chunk := range chunks {
		res, err := p.provider.Generate(ctx, chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			return 0, fmt.Errorf("generate embedding: %w", err)
		}

		if err := p.index.Insert(ctx, uuid.New(), chunk, metadata, res.Embedding.Values); err != nil {
			return 0, fmt.Errorf("store chunk: %w", err)
		}
	}

	return len(chunks), nil
}
