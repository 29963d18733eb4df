package mapper

import (
	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/model"
)

type FlashcardMapper struct{}

func NewFlashcardMapper() *FlashcardMapper {
	return &FlashcardMapper{}
}

func (m *FlashcardMapper) ToEntity(f *model.Flashcard) *entity.Flashcard {
	if f == nil {
		return nil
	}
	return &entity.Flashcard{
		Id:         f.Id,
		UserId:     f.UserId,
		NotebookId: f.NotebookId,
		Question:   f.Question,
		Answer:     f.Answer,
		Meta:       fromJSONPtr(f.Meta),
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
}

func (m *FlashcardMapper) ToModel(f *entity.Flashcard) *model.Flashcard {
	if f == nil {
		return nil
	}
	return &model.Flashcard{
		Id:         f.Id,
		UserId:     f.UserId,
		NotebookId: f.NotebookId,
		Question:   f.Question,
		Answer:     f.Answer,
		Meta:       toJSONPtr(f.Meta),
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
}

func (m *FlashcardMapper) ToEntities(items []*model.Flashcard) []*entity.Flashcard {
	entities := make([]*entity.Flashcard, len(items))
	for i, f := range items {
		entities[i] = m.ToEntity(f)
	}
	return entities
}

func (m *FlashcardMapper) FolderToEntity(f *model.FlashcardFolder) *entity.FlashcardFolder {
	if f == nil {
		return nil
	}
	return &entity.FlashcardFolder{
		Id:          f.Id,
		UserId:      f.UserId,
		NotebookId:  f.NotebookId,
		Name:        f.Name,
		Description: f.Description,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func (m *FlashcardMapper) FolderToModel(f *entity.FlashcardFolder) *model.FlashcardFolder {
	if f == nil {
		return nil
	}
	return &model.FlashcardFolder{
		Id:          f.Id,
		UserId:      f.UserId,
		NotebookId:  f.NotebookId,
		Name:        f.Name,
		Description: f.Description,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func (m *FlashcardMapper) FoldersToEntities(items []*model.FlashcardFolder) []*entity.FlashcardFolder {
	entities := make([]*entity.FlashcardFolder, len(items))
	for i, f := range items {
		entities[i] = m.FolderToEntity(f)
	}
	return entities
}
