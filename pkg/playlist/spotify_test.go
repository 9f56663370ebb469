package playlist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
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

func playlistJSON(name, owner, link string) map[string]interface{} {
	return map[string]interface{}{
		"name":          name,
		"owner":         map[string]string{"display_name": owner},
		"external_urls": map[string]string{"spotify": link},
	}
}

func newTestClient(t *testing.T, tokenCalls *int32, items []map[string]interface{}) *SpotifyClient {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(tokenCalls, 1)
		require.Equal(t, "POST", r.Method)
		require.NotEmpty(t, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "tok-123",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"playlists": map[string]interface{}{"items": items},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := NewSpotifyClient("id", "secret", nopLogger{})
	c.accountsURL = srv.URL + "/api/token"
	c.searchURL = srv.URL + "/v1/search"
	c.pick = func(int) int { return 0 }
	return c
}

func TestFindForMoodPrefersEditorialAndNameMatch(t *testing.T) {
	var tokenCalls int32
	c := newTestClient(t, &tokenCalls, []map[string]interface{}{
		playlistJSON("Rastgele liste", "someone", "https://open.spotify.com/playlist/1"),
		playlistJSON("mutlu şarkılar", "Spotify", "https://open.spotify.com/playlist/2"),
		playlistJSON("Başka liste", "someone", "https://open.spotify.com/playlist/3"),
	})

	got := c.FindForMood(context.Background(), "mutlu")
	assert.Equal(t, "https://open.spotify.com/playlist/2", got)
}

func TestFindForMoodSearchesMoodPhrase(t *testing.T) {
	var gotQuery string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "tok-123",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"playlists": map[string]interface{}{"items": []map[string]interface{}{
				playlistJSON("Rastgele liste", "someone", "https://open.spotify.com/playlist/1"),
				playlistJSON("mutlu ruh hali müzik mix", "someone", "https://open.spotify.com/playlist/2"),
			}},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := NewSpotifyClient("id", "secret", nopLogger{})
	c.accountsURL = srv.URL + "/api/token"
	c.searchURL = srv.URL + "/v1/search"
	c.pick = func(int) int { return 0 }

	got := c.FindForMood(context.Background(), "mutlu")

	assert.Equal(t, "mutlu ruh hali müzik", gotQuery)
	// Name bonus keys on the full phrase, so the second item outranks the first.
	assert.Equal(t, "https://open.spotify.com/playlist/2", got)
}

func TestFindForMoodCachesToken(t *testing.T) {
	var tokenCalls int32
	c := newTestClient(t, &tokenCalls, []map[string]interface{}{
		playlistJSON("liste", "x", "https://open.spotify.com/playlist/1"),
	})

	c.FindForMood(context.Background(), "sakin")
	c.FindForMood(context.Background(), "sakin")

	assert.Equal(t, int32(1), atomic.LoadInt32(&tokenCalls))
}

func TestFindForMoodEmptyResults(t *testing.T) {
	var tokenCalls int32
	c := newTestClient(t, &tokenCalls, nil)

	got := c.FindForMood(context.Background(), "sakin")
	assert.Equal(t, emptyResultURL, got)
}

func TestFindForMoodTokenFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewSpotifyClient("id", "bad-secret", nopLogger{})
	c.accountsURL = srv.URL

	got := c.FindForMood(context.Background(), "mutlu")
	assert.Equal(t, searchFallbackURL, got)
}
