package retrieve

import (
	"context"
	"fmt"

	"moodmuse-be/pkg/rag/index"
)

// Query texts and result counts for each retrieval category. The style query
// is emotion-independent; example and evidence queries embed the emotion so
// nearby corpus entries for that feeling rank first.
const (
	styleQuery    = "kısa yargısız sen kip nefes"
	exampleQuery  = "%s için kısa örnek"
	evidenceQuery = "nefes farkındalık %s"

	styleK    = 1
	exampleK  = 2
	evidenceK = 1
)

// Selection holds the corpus material retrieved for one emotion, grouped by
// category. Any group may be empty when the corpus has no match.
type Selection struct {
	Style    []index.Result
	Examples []index.Result
	Evidence []index.Result
}

// Retriever runs the three category queries against a single index.
type Retriever struct {
	index index.Index
}

func NewRetriever(idx index.Index) *Retriever {
	return &Retriever{index: idx}
}

// PickFor gathers style, example and evidence snippets for the given emotion.
// Example snippets are filtered to the exact emotion, so an emotion the
// corpus has never seen simply yields no examples.
func (r *Retriever) PickFor(ctx context.Context, emotion string) (*Selection, error) {
	style, err := r.index.QueryText(ctx, styleQuery, styleK, map[string]string{
		index.MetaKind: index.KindStyle,
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve style: %w", err)
	}

	examples, err := r.index.QueryText(ctx, fmt.Sprintf(exampleQuery, emotion), exampleK, map[string]string{
		index.MetaKind:    index.KindExample,
		index.MetaEmotion: emotion,
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve examples: %w", err)
	}

	evidence, err := r.index.QueryText(ctx, fmt.Sprintf(evidenceQuery, emotion), evidenceK, map[string]string{
		index.MetaKind: index.KindEvidence,
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve evidence: %w", err)
	}

	return &Selection{
		Style:    style,
		Examples: examples,
		Evidence: evidence,
	}, nil
}
