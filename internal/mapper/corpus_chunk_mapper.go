package mapper

import (
	"fmt"

	"moodmuse-be/internal/entity"
	"moodmuse-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type CorpusChunkMapper struct{}

func NewCorpusChunkMapper() *CorpusChunkMapper {
	return &CorpusChunkMapper{}
}

func (m *CorpusChunkMapper) ToEntity(c *model.CorpusChunk) *entity.CorpusChunk {
	if c == nil {
		return nil
	}

	// JSONB values come back as interface{}; only string values are stored.
	metadata := make(map[string]string, len(c.Metadata))
	for k, v := range c.Metadata {
		metadata[k] = fmt.Sprintf("%v", v)
	}

	return &entity.CorpusChunk{
		Id:             c.Id,
		Document:       c.Document,
		Metadata:       metadata,
		ContentHash:    c.ContentHash,
		EmbeddingValue: c.EmbeddingValue.Slice(),
		Seq:            c.Seq,
		CreatedAt:      c.CreatedAt,
	}
}

func (m *CorpusChunkMapper) ToModel(c *entity.CorpusChunk) *model.CorpusChunk {
	if c == nil {
		return nil
	}

	metadata := make(datatypes.JSONMap, len(c.Metadata))
	for k, v := range c.Metadata {
		metadata[k] = v
	}

	return &model.CorpusChunk{
		Id:             c.Id,
		Document:       c.Document,
		Metadata:       metadata,
		ContentHash:    c.ContentHash,
		EmbeddingValue: pgvector.NewVector(c.EmbeddingValue),
		Seq:            c.Seq,
		CreatedAt:      c.CreatedAt,
	}
}

func (m *CorpusChunkMapper) ToEntities(chunks []*model.CorpusChunk) []*entity.CorpusChunk {
	entities := make([]*entity.CorpusChunk, len(chunks))
	for i, c := range chunks {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
