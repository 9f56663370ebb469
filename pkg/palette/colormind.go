// Package palette generates mood-matched color palettes via the Colormind API.
package palette

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"moodmuse-be/internal/pkg/logger"
)

const defaultEndpoint = "http://colormind.io/api/"

// Colormind exposes a handful of trained models; moods map onto the two that
// give usable journal palettes.
var moodToModel = map[string]string{
	"mutlu":     "default",
	"üzgün":     "ui",
	"kızgın":    "default",
	"şaşkın":    "default",
	"sakin":     "ui",
	"enerjik":   "default",
	"düşünceli": "ui",
	"kararsız":  "default",
	"karmaşık":  "default",
}

// Neutral grays returned when Colormind is unreachable.
var fallbackPalette = []string{"#D3D3D3", "#A9A9A9", "#808080", "#696969"}

type Generator struct {
	endpoint string
	client   *http.Client
	logger   logger.ILogger
}

func NewGenerator(log logger.ILogger) *Generator {
	return &Generator{
		endpoint: defaultEndpoint,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: log,
	}
}

// NewGeneratorWithEndpoint exists for tests.
func NewGeneratorWithEndpoint(endpoint string, log logger.ILogger) *Generator {
	g := NewGenerator(log)
	g.endpoint = endpoint
	return g
}

type colormindRequest struct {
	Model string `json:"model"`
}

type colormindResponse struct {
	Result [][3]int `json:"result"`
}

// GenerateForMood returns up to four hex colors for the given mood label.
// Any failure degrades to the neutral fallback palette, never an error.
func (g *Generator) GenerateForMood(ctx context.Context, moodLabel string) []string {
	model, ok := moodToModel[moodLabel]
	if !ok {
		model = "default"
	}

	payload, err := json.Marshal(colormindRequest{Model: model})
	if err != nil {
		return fallback()
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return fallback()
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("palette", "Colormind request failed", map[string]interface{}{
			"mood":  moodLabel,
			"error": err.Error(),
		})
		return fallback()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.logger.Warn("palette", "Colormind returned non-OK status", map[string]interface{}{
			"mood":   moodLabel,
			"status": resp.StatusCode,
		})
		return fallback()
	}

	var body colormindResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		g.logger.Warn("palette", "Colormind response unreadable", map[string]interface{}{
			"error": err.Error(),
		})
		return fallback()
	}

	colors := make([]string, 0, 4)
	for _, rgb := range body.Result {
		colors = append(colors, fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2]))
		if len(colors) == 4 {
			break
		}
	}
	if len(colors) == 0 {
		return fallback()
	}
	return colors
}

func fallback() []string {
	out := make([]string, len(fallbackPalette))
	copy(out, fallbackPalette)
	return out
}
