package implementation

import (
	"context"

	"moodmuse-be/internal/entity"
	"moodmuse-be/internal/mapper"
	"moodmuse-be/internal/model"
	"moodmuse-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CorpusChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CorpusChunkMapper
}

func NewCorpusChunkRepository(db *gorm.DB) contract.CorpusChunkRepository {
	return &CorpusChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewCorpusChunkMapper(),
	}
}

func (r *CorpusChunkRepositoryImpl) Create(ctx context.Context, chunk *entity.CorpusChunk) error {
	m := r.mapper.ToModel(chunk)

	// Re-ingesting identical content is a no-op; a duplicate id with different
	// content still violates the primary key.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "content_hash"}},
			DoNothing: true,
		}).
		Create(m).Error
	if err != nil {
		return err
	}

	*chunk = *r.mapper.ToEntity(m)
	return nil
}

func (r *CorpusChunkRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CorpusChunk{}).Count(&count).Error
	return count, err
}

func (r *CorpusChunkRepositoryImpl) SearchSimilar(ctx context.Context, vector []float32, k int, filter map[string]string) ([]*entity.CorpusChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	query := r.db.WithContext(ctx).Model(&model.CorpusChunk{})

	// Each filter key must match exactly; multiple keys are conjunctive.
	for key, value := range filter {
		query = query.Where(datatypes.JSONQuery("metadata").Equals(value, key))
	}

	var models []*model.CorpusChunk
	err := query.
		Order(gorm.Expr("embedding_value <=> ?", pgvector.NewVector(vector))).
		Order("seq ASC").
		Limit(k).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models), nil
}
