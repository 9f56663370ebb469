// Package playlist finds a Spotify playlist matching a mood label.
package playlist

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"moodmuse-be/internal/pkg/logger"

	gocache "github.com/patrickmn/go-cache"
)

const (
	accountsURL = "https://accounts.spotify.com/api/token"
	searchURL   = "https://api.spotify.com/v1/search"

	searchLimit   = 20
	topCandidates = 5

	// Sent when Spotify is unreachable or returns nothing useful, so the
	// client still has somewhere to land.
	searchFallbackURL = "https://open.spotify.com/search/error"
	emptyResultURL    = "https://open.spotify.com/"

	tokenCacheKey = "spotify_access_token"
)

type SpotifyClient struct {
	clientID     string
	clientSecret string
	accountsURL  string
	searchURL    string
	client       *http.Client
	tokens       *gocache.Cache
	logger       logger.ILogger
	pick         func(n int) int
}

func NewSpotifyClient(clientID, clientSecret string, log logger.ILogger) *SpotifyClient {
	return &SpotifyClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		accountsURL:  accountsURL,
		searchURL:    searchURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		tokens: gocache.New(50*time.Minute, 10*time.Minute),
		logger: log,
		pick:   rand.Intn,
	}
}

// NewSpotifyClientWithURLs points the client at custom token and search
// endpoints. Used in tests.
func NewSpotifyClientWithURLs(clientID, clientSecret, accountsURL, searchURL string, log logger.ILogger) *SpotifyClient {
	c := NewSpotifyClient(clientID, clientSecret, log)
	c.accountsURL = accountsURL
	c.searchURL = searchURL
	return c
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// accessToken returns a cached client-credentials token, fetching a fresh one
// when the cache is cold. Tokens expire after an hour; caching slightly short
// of that avoids using a token at its boundary.
func (s *SpotifyClient) accessToken(ctx context.Context) (string, error) {
	if cached, ok := s.tokens.Get(tokenCacheKey); ok {
		return cached.(string), nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, "POST", s.accountsURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	basic := base64.StdEncoding.EncodeToString([]byte(s.clientID + ":" + s.clientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("spotify token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("spotify token error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("spotify returned an empty access token")
	}

	ttl := gocache.DefaultExpiration
	if token.ExpiresIn > 60 {
		ttl = time.Duration(token.ExpiresIn-60) * time.Second
	}
	s.tokens.Set(tokenCacheKey, token.AccessToken, ttl)

	return token.AccessToken, nil
}

type searchResponse struct {
	Playlists struct {
		Items []playlistItem `json:"items"`
	} `json:"playlists"`
}

type playlistItem struct {
	Name  string `json:"name"`
	Owner struct {
		DisplayName string `json:"display_name"`
	} `json:"owner"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

type scoredPlaylist struct {
	item  playlistItem
	score int
}

// FindForMood searches playlists for "<mood> ruh hali müzik", scores the
// results and picks randomly among the best few so repeated requests do not
// always land on the same list. Failures degrade to a fallback URL, never an
// error.
func (s *SpotifyClient) FindForMood(ctx context.Context, moodLabel string) string {
	token, err := s.accessToken(ctx)
	if err != nil {
		s.logger.Warn("playlist", "Spotify token unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		return searchFallbackURL
	}

	searchTerm := moodLabel + " ruh hali müzik"
	query := url.Values{
		"q":     {searchTerm},
		"type":  {"playlist"},
		"limit": {fmt.Sprintf("%d", searchLimit)},
	}
	req, err := http.NewRequestWithContext(ctx, "GET", s.searchURL+"?"+query.Encode(), nil)
	if err != nil {
		return searchFallbackURL
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("playlist", "Spotify search failed", map[string]interface{}{
			"mood":  moodLabel,
			"error": err.Error(),
		})
		return searchFallbackURL
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("playlist", "Spotify search returned non-OK status", map[string]interface{}{
			"mood":   moodLabel,
			"status": resp.StatusCode,
		})
		return searchFallbackURL
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return searchFallbackURL
	}

	items := body.Playlists.Items
	if len(items) == 0 {
		return emptyResultURL
	}

	scored := make([]scoredPlaylist, 0, len(items))
	for i, item := range items {
		score := 0
		if item.Owner.DisplayName == "Spotify" {
			score += 50
		}
		if strings.Contains(strings.ToLower(item.Name), strings.ToLower(searchTerm)) {
			score += 25
		}
		score += searchLimit - i
		scored = append(scored, scoredPlaylist{item: item, score: score})
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].score > scored[b].score
	})

	top := scored
	if len(top) > topCandidates {
		top = top[:topCandidates]
	}

	chosen := top[s.pick(len(top))].item
	if chosen.ExternalURLs.Spotify == "" {
		return emptyResultURL
	}
	return chosen.ExternalURLs.Spotify
}
