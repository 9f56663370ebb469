package implementation

import (
	"context"

	"moodmuse-be/internal/entity"
	"moodmuse-be/internal/mapper"
	"moodmuse-be/internal/model"
	"moodmuse-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SuggestionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SuggestionMapper
}

func NewSuggestionRepository(db *gorm.DB) contract.SuggestionRepository {
	return &SuggestionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSuggestionMapper(),
	}
}

func (r *SuggestionRepositoryImpl) Create(ctx context.Context, suggestion *entity.Suggestion) error {
	m := r.mapper.ToModel(suggestion)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*suggestion = *r.mapper.ToEntity(m)
	return nil
}

func (r *SuggestionRepositoryImpl) FindByMoodEntryIds(ctx context.Context, moodEntryIds []uuid.UUID) ([]*entity.Suggestion, error) {
	if len(moodEntryIds) == 0 {
		return nil, nil
	}
	var models []*model.Suggestion
	err := r.db.WithContext(ctx).
		Where("mood_entry_id IN ?", moodEntryIds).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
