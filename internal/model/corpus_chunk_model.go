package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type CorpusChunk struct {
	Id             uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Document       string            `gorm:"type:text;not null"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb"`
	ContentHash    string            `gorm:"type:varchar(64);uniqueIndex;not null"`
	EmbeddingValue pgvector.Vector   `gorm:"type:vector(768)"` // text-embedding-004 dimensionality
	Seq            int64             `gorm:"autoIncrement;uniqueIndex"`
	CreatedAt      time.Time         `gorm:"autoCreateTime"`
}

func (CorpusChunk) TableName() string {
	return "corpus_chunks"
}
