package palette

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"moodmuse-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func TestGenerateForMoodConvertsToHex(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotModel = req["model"]
		json.NewEncoder(w).Encode(map[string][][3]int{
			"result": {{211, 211, 211}, {0, 128, 255}, {255, 0, 0}, {1, 2, 3}, {9, 9, 9}},
		})
	}))
	defer srv.Close()

	g := NewGeneratorWithEndpoint(srv.URL, nopLogger{})
	colors := g.GenerateForMood(context.Background(), "sakin")

	assert.Equal(t, "ui", gotModel)
	assert.Equal(t, []string{"#d3d3d3", "#0080ff", "#ff0000", "#010203"}, colors)
}

func TestGenerateForMoodUnknownMoodUsesDefaultModel(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		gotModel = req["model"]
		json.NewEncoder(w).Encode(map[string][][3]int{"result": {{1, 2, 3}}})
	}))
	defer srv.Close()

	g := NewGeneratorWithEndpoint(srv.URL, nopLogger{})
	g.GenerateForMood(context.Background(), "bilinmeyen")

	assert.Equal(t, "default", gotModel)
}

func TestGenerateForMoodFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := NewGeneratorWithEndpoint(srv.URL, nopLogger{})
	colors := g.GenerateForMood(context.Background(), "mutlu")

	assert.Equal(t, fallbackPalette, colors)
}

func TestGenerateForMoodFallsBackWhenUnreachable(t *testing.T) {
	g := NewGeneratorWithEndpoint("http://127.0.0.1:1", nopLogger{})
	colors := g.GenerateForMood(context.Background(), "mutlu")

	assert.Equal(t, fallbackPalette, colors)
}
