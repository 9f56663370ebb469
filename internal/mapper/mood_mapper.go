package mapper

import (
	"moodmuse-be/internal/entity"
	"moodmuse-be/internal/model"

	"gorm.io/datatypes"
)

type MoodEntryMapper struct{}

func NewMoodEntryMapper() *MoodEntryMapper {
	return &MoodEntryMapper{}
}

func (m *MoodEntryMapper) ToEntity(e *model.MoodEntry) *entity.MoodEntry {
	if e == nil {
		return nil
	}
	return &entity.MoodEntry{
		Id:        e.Id,
		UserId:    e.UserId,
		Text:      e.Text,
		MoodLabel: e.MoodLabel,
		CreatedAt: e.CreatedAt,
	}
}

func (m *MoodEntryMapper) ToModel(e *entity.MoodEntry) *model.MoodEntry {
	if e == nil {
		return nil
	}
	return &model.MoodEntry{
		Id:        e.Id,
		UserId:    e.UserId,
		Text:      e.Text,
		MoodLabel: e.MoodLabel,
		CreatedAt: e.CreatedAt,
	}
}

func (m *MoodEntryMapper) ToEntities(entries []*model.MoodEntry) []*entity.MoodEntry {
	entities := make([]*entity.MoodEntry, len(entries))
	for i, e := range entries {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

type SuggestionMapper struct{}

func NewSuggestionMapper() *SuggestionMapper {
	return &SuggestionMapper{}
}

func (m *SuggestionMapper) ToEntity(s *model.Suggestion) *entity.Suggestion {
	if s == nil {
		return nil
	}
	return &entity.Suggestion{
		Id:           s.Id,
		MoodEntryId:  s.MoodEntryId,
		ColorPalette: []string(s.ColorPalette),
		PlaylistURL:  s.PlaylistURL,
		Message:      s.Message,
		CreatedAt:    s.CreatedAt,
	}
}

func (m *SuggestionMapper) ToModel(s *entity.Suggestion) *model.Suggestion {
	if s == nil {
		return nil
	}
	return &model.Suggestion{
		Id:           s.Id,
		MoodEntryId:  s.MoodEntryId,
		ColorPalette: datatypes.NewJSONSlice(s.ColorPalette),
		PlaylistURL:  s.PlaylistURL,
		Message:      s.Message,
		CreatedAt:    s.CreatedAt,
	}
}

func (m *SuggestionMapper) ToEntities(suggestions []*model.Suggestion) []*entity.Suggestion {
	entities := make([]*entity.Suggestion, len(suggestions))
	for i, s := range suggestions {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
