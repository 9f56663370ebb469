package implementation

import (
	"context"

	"moodmuse-be/internal/entity"
	"moodmuse-be/internal/mapper"
	"moodmuse-be/internal/model"
	"moodmuse-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type JournalEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.JournalEmbeddingMapper
}

func NewJournalEmbeddingRepository(db *gorm.DB) contract.JournalEmbeddingRepository {
	return &JournalEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewJournalEmbeddingMapper(),
	}
}

func (r *JournalEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.JournalEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}

	models := make([]*model.JournalEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.ToModel(e)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	for i, m := range models {
		*embeddings[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *JournalEmbeddingRepositoryImpl) DeleteByMoodEntryId(ctx context.Context, moodEntryId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("mood_entry_id = ?", moodEntryId).
		Delete(&model.JournalEmbedding{}).Error
}

func (r *JournalEmbeddingRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int, userId uuid.UUID) ([]*entity.JournalEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}
	var models []*model.JournalEmbedding

	// Join through mood_entries so a user can only search their own journal.
	err := r.db.WithContext(ctx).
		Joins("JOIN mood_entries ON mood_entries.id = journal_embeddings.mood_entry_id").
		Where("mood_entries.user_id = ?", userId).
		Where("journal_embeddings.deleted_at IS NULL").
		Where("mood_entries.deleted_at IS NULL").
		Order(gorm.Expr("embedding_value <=> ?", pgvector.NewVector(embedding))).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models), nil
}
