package unitofwork

import (
	"context"

	"moodmuse-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	MoodEntryRepository() contract.MoodEntryRepository
	SuggestionRepository() contract.SuggestionRepository
	CorpusChunkRepository() contract.CorpusChunkRepository
	JournalEmbeddingRepository() contract.JournalEmbeddingRepository
}
