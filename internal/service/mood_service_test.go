// FILE: internal/service/mood_service_test.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"moodmuse-be/internal/dto"
	"moodmuse-be/internal/entity"
	"moodmuse-be/internal/pkg/logger"
	"moodmuse-be/internal/repository/contract"
	"moodmuse-be/internal/repository/specification"
	"moodmuse-be/internal/repository/unitofwork"
	"moodmuse-be/pkg/embedding"
	"moodmuse-be/pkg/llm"
	"moodmuse-be/pkg/mood"
	"moodmuse-be/pkg/palette"
	"moodmuse-be/pkg/playlist"
	"moodmuse-be/pkg/rag/index"
	"moodmuse-be/pkg/rag/retrieve"

	"github.com/google/uuid"
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

type stubEmbedder struct{}

func (stubEmbedder) Generate(_ context.Context, text string, _ string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{
			Values: []float32{float32(len([]rune(text))), 1},
		},
	}, nil
}

// queueProvider replies in order; an entry with err set fails that call.
type queueReply struct {
	text string
	err  error
}

type queueProvider struct {
	replies []queueReply
}

func (q *queueProvider) next() (string, error) {
	if len(q.replies) == 0 {
		return "", errors.New("no scripted reply left")
	}
	r := q.replies[0]
	q.replies = q.replies[1:]
	return r.text, r.err
}

func (q *queueProvider) Chat(context.Context, []llm.Message, ...llm.Option) (string, error) {
	return q.next()
}

func (q *queueProvider) Generate(context.Context, string, ...llm.Option) (string, error) {
	return q.next()
}

// In-memory repositories behind the unit of work.

type fakeMoodEntryRepo struct {
	entries []*entity.MoodEntry
}

func (r *fakeMoodEntryRepo) Create(_ context.Context, e *entity.MoodEntry) error {
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeMoodEntryRepo) Delete(context.Context, uuid.UUID) error { return nil }

func (r *fakeMoodEntryRepo) FindOne(context.Context, ...specification.Specification) (*entity.MoodEntry, error) {
	if len(r.entries) == 0 {
		return nil, nil
	}
	return r.entries[0], nil
}

func (r *fakeMoodEntryRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.MoodEntry, error) {
	return r.entries, nil
}

func (r *fakeMoodEntryRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return int64(len(r.entries)), nil
}

func (r *fakeMoodEntryRepo) CountByLabelSince(_ context.Context, userId uuid.UUID, since time.Time) ([]contract.MoodCount, error) {
	counts := map[string]int64{}
	for _, e := range r.entries {
		if e.UserId == userId && e.CreatedAt.After(since) {
			counts[e.MoodLabel]++
		}
	}
	var out []contract.MoodCount
	for label, n := range counts {
		out = append(out, contract.MoodCount{MoodLabel: label, Count: n})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].MoodLabel < out[b].MoodLabel
	})
	return out, nil
}

type fakeSuggestionRepo struct {
	suggestions []*entity.Suggestion
}

func (r *fakeSuggestionRepo) Create(_ context.Context, s *entity.Suggestion) error {
	r.suggestions = append(r.suggestions, s)
	return nil
}

func (r *fakeSuggestionRepo) FindByMoodEntryIds(_ context.Context, ids []uuid.UUID) ([]*entity.Suggestion, error) {
	want := map[uuid.UUID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []*entity.Suggestion
	for _, s := range r.suggestions {
		if want[s.MoodEntryId] {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeJournalRepo struct {
	matches []*entity.JournalEmbedding
	created []*entity.JournalEmbedding
	deleted []uuid.UUID
}

func (r *fakeJournalRepo) CreateBulk(_ context.Context, embeddings []*entity.JournalEmbedding) error {
	r.created = append(r.created, embeddings...)
	return nil
}

func (r *fakeJournalRepo) DeleteByMoodEntryId(_ context.Context, moodEntryId uuid.UUID) error {
	r.deleted = append(r.deleted, moodEntryId)
	return nil
}
func (r *fakeJournalRepo) SearchSimilar(context.Context, []float32, int, uuid.UUID) ([]*entity.JournalEmbedding, error) {
	return r.matches, nil
}

type fakeUow struct {
	moodRepo       *fakeMoodEntryRepo
	suggestionRepo *fakeSuggestionRepo
	journalRepo    *fakeJournalRepo
	userRepo       *fakeUserRepo
	commits        int
}

func newFakeUow() *fakeUow {
	return &fakeUow{
		moodRepo:       &fakeMoodEntryRepo{},
		suggestionRepo: &fakeSuggestionRepo{},
		journalRepo:    &fakeJournalRepo{},
		userRepo:       &fakeUserRepo{},
	}
}

func (u *fakeUow) Begin(context.Context) error { return nil }
func (u *fakeUow) Commit() error {
	u.commits++
	return nil
}
func (u *fakeUow) Rollback() error { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository             { return u.userRepo }
func (u *fakeUow) MoodEntryRepository() contract.MoodEntryRepository   { return u.moodRepo }
func (u *fakeUow) SuggestionRepository() contract.SuggestionRepository { return u.suggestionRepo }
func (u *fakeUow) CorpusChunkRepository() contract.CorpusChunkRepository {
	return nil
}
func (u *fakeUow) JournalEmbeddingRepository() contract.JournalEmbeddingRepository {
	return u.journalRepo
}

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return f.uow }

type capturingPublisher struct {
	payloads [][]byte
}

func (p *capturingPublisher) Publish(_ context.Context, payload []byte) error {
	p.payloads = append(p.payloads, payload)
	return nil
}

func seededRetriever(t *testing.T) *retrieve.Retriever {
	t.Helper()
	idx := index.NewMemoryIndex(stubEmbedder{})
	ctx := context.Background()

	seed := []struct {
		meta map[string]string
		text string
	}{
		{map[string]string{index.MetaKind: index.KindStyle, index.MetaEmotion: index.EmotionNone, index.MetaSource: "uslup.md"},
			"Kısa ve yargısız cümleler kur."},
		{map[string]string{index.MetaKind: index.KindExample, index.MetaEmotion: "üzgün", index.MetaSource: "ornekler.json"},
			"Bugün zor geçti, kendine nazik davran."},
		{map[string]string{index.MetaKind: index.KindEvidence, index.MetaEmotion: index.EmotionNone, index.MetaSource: "nefes.txt"},
			"Yavaş nefes almak sinir sistemini sakinleştirir."},
	}
	for _, s := range seed {
		res, err := stubEmbedder{}.Generate(ctx, s.text, "RETRIEVAL_DOCUMENT")
		require.NoError(t, err)
		require.NoError(t, idx.Insert(ctx, uuid.New(), s.text, s.meta, res.Embedding.Values))
	}
	return retrieve.NewRetriever(idx)
}

func spotifyTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"access_token": "tok", "expires_in": 3600})
	})
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"playlists": map[string]interface{}{
				"items": []map[string]interface{}{
					{
						"name":          "Sad Hours",
						"owner":         map[string]interface{}{"display_name": "Spotify"},
						"external_urls": map[string]interface{}{"spotify": "https://open.spotify.com/playlist/sad1"},
					},
				},
			},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func paletteTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"result": [][3]int{{10, 20, 30}, {40, 50, 60}, {70, 80, 90}, {100, 110, 120}, {130, 140, 150}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestMoodService(t *testing.T, uow *fakeUow, provider llm.LLMProvider, pub IPublisherService) IMoodService {
	t.Helper()
	spotifySrv := spotifyTestServer(t)
	paletteSrv := paletteTestServer(t)

	return NewMoodService(
		&fakeUowFactory{uow: uow},
		mood.NewClassifier(provider),
		palette.NewGeneratorWithEndpoint(paletteSrv.URL, nopLogger{}),
		playlist.NewSpotifyClientWithURLs("id", "secret", spotifySrv.URL+"/api/token", spotifySrv.URL+"/v1/search", nopLogger{}),
		seededRetriever(t),
		provider,
		stubEmbedder{},
		pub,
		nil,
		nopLogger{},
	)
}

func TestAnalyzePersistsEntryAndSuggestion(t *testing.T) {
	uow := newFakeUow()
	pub := &capturingPublisher{}
	provider := &queueProvider{replies: []queueReply{
		{text: "üzgün"},
		{text: "Bugün kendine biraz zaman ayır, nefesin yanında."},
	}}
	svc := newTestMoodService(t, uow, provider, pub)

	userId := uuid.New()
	res, err := svc.Analyze(context.Background(), userId, &dto.AnalyzeMoodRequest{Text: "Bugün her şey üst üste geldi."})
	require.NoError(t, err)

	assert.Equal(t, "üzgün", res.MoodLabel)
	assert.Equal(t, "Bugün kendine biraz zaman ayır, nefesin yanında.", res.Message)
	assert.Equal(t, "https://open.spotify.com/playlist/sad1", res.SpotifyPlaylist)
	assert.Equal(t, []string{"#0a141e", "#28323c", "#46505a", "#646e78"}, res.ColorPalette)

	require.Len(t, uow.moodRepo.entries, 1)
	entry := uow.moodRepo.entries[0]
	assert.Equal(t, userId, entry.UserId)
	assert.Equal(t, "üzgün", entry.MoodLabel)

	require.Len(t, uow.suggestionRepo.suggestions, 1)
	assert.Equal(t, entry.Id, uow.suggestionRepo.suggestions[0].MoodEntryId)
	assert.Equal(t, 1, uow.commits)

	require.Len(t, pub.payloads, 1)
	var msg dto.PublishEmbedEntryMessage
	require.NoError(t, json.Unmarshal(pub.payloads[0], &msg))
	assert.Equal(t, entry.Id, msg.MoodEntryId)
}

func TestAnalyzeGenerationFailureUsesFallbackMessage(t *testing.T) {
	uow := newFakeUow()
	provider := &queueProvider{replies: []queueReply{
		{text: "mutlu"},
		{err: errors.New("model unreachable")},
	}}
	svc := newTestMoodService(t, uow, provider, &capturingPublisher{})

	res, err := svc.Analyze(context.Background(), uuid.New(), &dto.AnalyzeMoodRequest{Text: "Harika bir gün geçirdim."})
	require.NoError(t, err)

	assert.Equal(t, "mutlu", res.MoodLabel)
	assert.Equal(t, fallbackMessage, res.Message)
	assert.Len(t, uow.moodRepo.entries, 1)
}

func TestAnalyzeClassifierFailureFallsBackLabel(t *testing.T) {
	uow := newFakeUow()
	provider := &queueProvider{replies: []queueReply{
		{err: errors.New("timeout")},
		{text: "Nefes al."},
	}}
	svc := newTestMoodService(t, uow, provider, &capturingPublisher{})

	res, err := svc.Analyze(context.Background(), uuid.New(), &dto.AnalyzeMoodRequest{Text: "Ne hissettiğimi bilmiyorum."})
	require.NoError(t, err)

	assert.Equal(t, mood.FallbackLabel, res.MoodLabel)
	assert.Equal(t, "Nefes al.", res.Message)
}

func TestHistoryMergesSuggestions(t *testing.T) {
	uow := newFakeUow()
	entryId := uuid.New()
	userId := uuid.New()
	uow.moodRepo.entries = []*entity.MoodEntry{
		{Id: entryId, UserId: userId, Text: "Sakin bir akşam.", MoodLabel: "sakin", CreatedAt: time.Now()},
	}
	uow.suggestionRepo.suggestions = []*entity.Suggestion{
		{
			Id:           uuid.New(),
			MoodEntryId:  entryId,
			ColorPalette: []string{"#aabbcc"},
			PlaylistURL:  "https://open.spotify.com/playlist/calm",
			Message:      "Bu sükuneti koru.",
			CreatedAt:    time.Now(),
		},
	}

	provider := &queueProvider{}
	svc := newTestMoodService(t, uow, provider, &capturingPublisher{})

	items, err := svc.History(context.Background(), userId, HistoryOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, entryId, items[0].EntryId)
	assert.Equal(t, "sakin", items[0].MoodLabel)
	assert.Equal(t, []string{"#aabbcc"}, items[0].ColorPalette)
	assert.Equal(t, "Bu sükuneti koru.", items[0].Message)
}

func TestSemanticSearchMapsMatches(t *testing.T) {
	uow := newFakeUow()
	entryId := uuid.New()
	uow.journalRepo.matches = []*entity.JournalEmbedding{
		{Id: uuid.New(), MoodEntryId: entryId, Document: "Duygu: sakin\n\nSakin bir akşam."},
	}

	svc := newTestMoodService(t, uow, &queueProvider{}, &capturingPublisher{})

	results, err := svc.SemanticSearch(context.Background(), uuid.New(), "sakin akşamlar")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, entryId, results[0].MoodEntryId)
	assert.Equal(t, "Duygu: sakin\n\nSakin bir akşam.", results[0].Document)
}
