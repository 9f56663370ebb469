package mapper

import (
	"time"

	"moodmuse-be/internal/entity"
	"moodmuse-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type JournalEmbeddingMapper struct{}

func NewJournalEmbeddingMapper() *JournalEmbeddingMapper {
	return &JournalEmbeddingMapper{}
}

func (m *JournalEmbeddingMapper) ToEntity(e *model.JournalEmbedding) *entity.JournalEmbedding {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.JournalEmbedding{
		Id:             e.Id,
		Document:       e.Document,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		MoodEntryId:    e.MoodEntryId,
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      e.DeletedAt.Valid,
	}
}

func (m *JournalEmbeddingMapper) ToModel(e *entity.JournalEmbedding) *model.JournalEmbedding {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.JournalEmbedding{
		Id:             e.Id,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		MoodEntryId:    e.MoodEntryId,
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}

func (m *JournalEmbeddingMapper) ToEntities(embeddings []*model.JournalEmbedding) []*entity.JournalEmbedding {
	entities := make([]*entity.JournalEmbedding, len(embeddings))
	for i, e := range embeddings {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
