// FILE: internal/service/mood_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"moodmuse-be/internal/dto"
	"moodmuse-be/internal/entity"
	"moodmuse-be/internal/pkg/logger"
	"moodmuse-be/internal/repository/specification"
	"moodmuse-be/internal/repository/unitofwork"
	"moodmuse-be/pkg/embedding"
	"moodmuse-be/pkg/events"
	"moodmuse-be/pkg/llm"
	"moodmuse-be/pkg/mood"
	pktNats "moodmuse-be/pkg/nats"
	"moodmuse-be/pkg/palette"
	"moodmuse-be/pkg/playlist"
	"moodmuse-be/pkg/rag/prompt"
	"moodmuse-be/pkg/rag/retrieve"

	"github.com/google/uuid"
)

// Shown when the generation model is unreachable or times out.
const fallbackMessage = "Bir an dur ve sadece nefes al; her şey yoluna girecek."

const generationTimeout = 30 * time.Second

type IMoodService interface {
	Analyze(ctx context.Context, userId uuid.UUID, req *dto.AnalyzeMoodRequest) (*dto.AnalyzeMoodResponse, error)
	History(ctx context.Context, userId uuid.UUID, opts HistoryOptions) ([]*dto.MoodHistoryItem, error)
	SemanticSearch(ctx context.Context, userId uuid.UUID, query string) ([]*dto.SemanticSearchResponse, error)
}

type moodService struct {
	uowFactory        unitofwork.RepositoryFactory
	classifier        *mood.Classifier
	paletteGen        *palette.Generator
	spotify           *playlist.SpotifyClient
	retriever         *retrieve.Retriever
	llmProvider       llm.LLMProvider
	embeddingProvider embedding.EmbeddingProvider
	publisherService  IPublisherService
	eventPublisher    *pktNats.Publisher
	logger            logger.ILogger
}

func NewMoodService(
	uowFactory unitofwork.RepositoryFactory,
	classifier *mood.Classifier,
	paletteGen *palette.Generator,
	spotify *playlist.SpotifyClient,
	retriever *retrieve.Retriever,
	llmProvider llm.LLMProvider,
	embeddingProvider embedding.EmbeddingProvider,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IMoodService {
	return &moodService{
		uowFactory:        uowFactory,
		classifier:        classifier,
		paletteGen:        paletteGen,
		spotify:           spotify,
		retriever:         retriever,
		llmProvider:       llmProvider,
		embeddingProvider: embeddingProvider,
		publisherService:  publisherService,
		eventPublisher:    eventPublisher,
		logger:            log,
	}
}

// Analyze runs the full suggestion pipeline for one journal text: mood label,
// color palette, playlist, and the retrieval-grounded supportive message.
// Entry and suggestion are persisted together; palette, playlist and message
// each degrade independently so one flaky collaborator never fails the
// request.
func (s *moodService) Analyze(ctx context.Context, userId uuid.UUID, req *dto.AnalyzeMoodRequest) (*dto.AnalyzeMoodResponse, error) {
	label, err := s.classifier.Classify(ctx, req.Text)
	if err != nil {
		s.logger.Warn("mood", "Mood classification failed, using fallback label", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
		label = mood.FallbackLabel
	}

	colors := s.paletteGen.GenerateForMood(ctx, label)
	playlistURL := s.spotify.FindForMood(ctx, label)
	message := s.supportiveMessage(ctx, req.Text, label)

	entry := &entity.MoodEntry{
		Id:        uuid.New(),
		UserId:    userId,
		Text:      req.Text,
		MoodLabel: label,
		CreatedAt: time.Now(),
	}
	suggestion := &entity.Suggestion{
		Id:           uuid.New(),
		MoodEntryId:  entry.Id,
		ColorPalette: colors,
		PlaylistURL:  playlistURL,
		Message:      message,
		CreatedAt:    time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.MoodEntryRepository().Create(ctx, entry); err != nil {
		return nil, err
	}
	if err := uow.SuggestionRepository().Create(ctx, suggestion); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publishEmbedMessage(ctx, entry.Id)
	s.publishAnalyzedEvent(ctx, userId, entry.Id, label)

	return &dto.AnalyzeMoodResponse{
		EntryId:         entry.Id,
		MoodLabel:       label,
		ColorPalette:    colors,
		SpotifyPlaylist: playlistURL,
		Message:         message,
		CreatedAt:       entry.CreatedAt,
	}, nil
}

// supportiveMessage retrieves evidence for the emotion, builds the bounded
// generation prompt, and calls the model under a hard timeout. Any failure
// along the way yields the fixed calming fallback.
func (s *moodService) supportiveMessage(ctx context.Context, userText, emotion string) string {
	var evidence []prompt.Evidence

	sel, err := s.retriever.PickFor(ctx, emotion)
	if err != nil {
		s.logger.Warn("mood", "Corpus retrieval failed, building prompt without evidence", map[string]interface{}{
			"emotion": emotion,
			"error":   err.Error(),
		})
	} else {
		evidence = prompt.FromResults(sel.Evidence)
	}

	generationPrompt := prompt.Build(userText, emotion, evidence)

	genCtx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	message, err := s.llmProvider.Generate(genCtx, generationPrompt)
	if err != nil {
		s.logger.Warn("mood", "Generation failed, using fallback message", map[string]interface{}{
			"emotion": emotion,
			"error":   err.Error(),
		})
		return fallbackMessage
	}
	return message
}

func (s *moodService) publishEmbedMessage(ctx context.Context, entryId uuid.UUID) {
	payload, err := json.Marshal(dto.PublishEmbedEntryMessage{MoodEntryId: entryId})
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("mood", "Failed to publish embed message", map[string]interface{}{
			"entry_id": entryId,
			"error":    err.Error(),
		})
	}
}

func (s *moodService) publishAnalyzedEvent(ctx context.Context, userId, entryId uuid.UUID, label string) {
	if s.eventPublisher == nil {
		return
	}
	event := events.BaseEvent{
		Type: "MOOD_ANALYZED",
		Data: map[string]interface{}{
			"user_id":  userId,
			"entry_id": entryId,
			"mood":     label,
			"time":     time.Now().Format(time.RFC822),
		},
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		fmt.Printf("[WARN] Failed to publish MOOD_ANALYZED event: %v\n", err)
	}
}

// HistoryOptions narrows the history listing. Zero values mean no filter.
type HistoryOptions struct {
	Limit     int
	Offset    int
	MoodLabel string
	Since     time.Time
}

func (s *moodService) History(ctx context.Context, userId uuid.UUID, opts HistoryOptions) ([]*dto.MoodHistoryItem, error) {
	if opts.Limit <= 0 || opts.Limit > 100 {
		opts.Limit = 20
	}

	specs := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
	}
	if opts.MoodLabel != "" {
		specs = append(specs, specification.ByMoodLabel{Label: opts.MoodLabel})
	}
	if !opts.Since.IsZero() {
		specs = append(specs, specification.CreatedAfter{After: opts.Since})
	}
	specs = append(specs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: opts.Limit, Offset: opts.Offset},
	)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	entries, err := uow.MoodEntryRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		ids[i] = e.Id
	}

	suggestions, err := uow.SuggestionRepository().FindByMoodEntryIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	byEntry := make(map[uuid.UUID]*entity.Suggestion, len(suggestions))
	for _, sg := range suggestions {
		byEntry[sg.MoodEntryId] = sg
	}

	items := make([]*dto.MoodHistoryItem, len(entries))
	for i, e := range entries {
		item := &dto.MoodHistoryItem{
			EntryId:   e.Id,
			Text:      e.Text,
			MoodLabel: e.MoodLabel,
			CreatedAt: e.CreatedAt,
		}
		if sg, ok := byEntry[e.Id]; ok {
			item.ColorPalette = sg.ColorPalette
			item.SpotifyPlaylist = sg.PlaylistURL
			item.Message = sg.Message
		}
		items[i] = item
	}
	return items, nil
}

func (s *moodService) SemanticSearch(ctx context.Context, userId uuid.UUID, query string) ([]*dto.SemanticSearchResponse, error) {
	res, err := s.embeddingProvider.Generate(ctx, query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embed search query: %w", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	matches, err := uow.JournalEmbeddingRepository().SearchSimilar(ctx, res.Embedding.Values, 5, userId)
	if err != nil {
		return nil, err
	}

	results := make([]*dto.SemanticSearchResponse, len(matches))
	for i, m := range matches {
		results[i] = &dto.SemanticSearchResponse{
			MoodEntryId: m.MoodEntryId,
			Document:    m.Document,
		}
	}
	return results, nil
}
