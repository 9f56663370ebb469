// Package mood infers a single-word emotion label from free-form journal text.
package mood

import (
	"context"
	"fmt"
	"strings"

	"moodmuse-be/pkg/llm"
)

// Labels the classifier may return. Anything else collapses to FallbackLabel.
var Labels = []string{
	"mutlu",
	"üzgün",
	"kızgın",
	"şaşkın",
	"sakin",
	"enerjik",
	"düşünceli",
	"kararsız",
}

const FallbackLabel = "karmaşık"

const classifyPrompt = `Verilen metnin ana duygusunu şu listeden birini seçerek belirle: ` +
	`mutlu, üzgün, kızgın, şaşkın, sakin, enerjik, düşünceli, kararsız. ` +
	`Cevabı SADECE tek kelime olarak, örneğin 'mutlu' şeklinde ver.

Metin: "%s"`

type Classifier struct {
	provider llm.LLMProvider
	known    map[string]struct{}
}

func NewClassifier(provider llm.LLMProvider) *Classifier {
	known := make(map[string]struct{}, len(Labels))
	for _, l := range Labels {
		known[l] = struct{}{}
	}
	return &Classifier{provider: provider, known: known}
}

// Classify asks the model for a one-word label and normalizes the answer.
// Chatty models sometimes wrap the label in punctuation or extra words, so
// only the first token is kept. Unknown labels become FallbackLabel.
func (c *Classifier) Classify(ctx context.Context, text string) (string, error) {
	raw, err := c.provider.Generate(ctx, fmt.Sprintf(classifyPrompt, text))
	if err != nil {
		return "", fmt.Errorf("classify mood: %w", err)
	}

	return c.normalize(raw), nil
}

func (c *Classifier) normalize(raw string) string {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) == 0 {
		return FallbackLabel
	}

	label := strings.ToLower(strings.Trim(fields[0], `(),."'`))
	if _, ok := c.known[label]; !ok {
		return FallbackLabel
	}
	return label
}
