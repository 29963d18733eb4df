package mapper

import (
	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/model"

	"gorm.io/datatypes"
)

type QuizMapper struct{}

func NewQuizMapper() *QuizMapper {
	return &QuizMapper{}
}

func (m *QuizMapper) QuestionToEntity(q *model.QuizQuestion) *entity.QuizQuestion {
	if q == nil {
		return nil
	}
	return &entity.QuizQuestion{
		Id:           q.Id,
		UserId:       q.UserId,
		NotebookId:   q.NotebookId,
		Question:     q.Question,
		Options:      []string(q.Options),
		CorrectIndex: q.CorrectIndex,
		Hint:         q.Hint,
		Explaination: q.Explaination,
		Meta:         fromJSONPtr(q.Meta),
		IsFavorite:   q.IsFavorite,
		CreatedAt:    q.CreatedAt,
		UpdatedAt:    q.UpdatedAt,
	}
}

func (m *QuizMapper) QuestionToModel(q *entity.QuizQuestion) *model.QuizQuestion {
	if q == nil {
		return nil
	}
	options := q.Options
	if options == nil {
		options = []string{}
	}
	return &model.QuizQuestion{
		Id:           q.Id,
		UserId:       q.UserId,
		NotebookId:   q.NotebookId,
		Question:     q.Question,
		Options:      datatypes.JSONSlice[string](options),
		CorrectIndex: q.CorrectIndex,
		Hint:         q.Hint,
		Explaination: q.Explaination,
		Meta:         toJSONPtr(q.Meta),
		IsFavorite:   q.IsFavorite,
		CreatedAt:    q.CreatedAt,
		UpdatedAt:    q.UpdatedAt,
	}
}

func (m *QuizMapper) QuestionsToEntities(items []*model.QuizQuestion) []*entity.QuizQuestion {
	entities := make([]*entity.QuizQuestion, len(items))
	for i, q := range items {
		entities[i] = m.QuestionToEntity(q)
	}
	return entities
}

func (m *QuizMapper) FolderToEntity(f *model.QuizFolder) *entity.QuizFolder {
	if f == nil {
		return nil
	}
	return &entity.QuizFolder{
		Id:          f.Id,
		UserId:      f.UserId,
		NotebookId:  f.NotebookId,
		Name:        f.Name,
		Description: f.Description,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func (m *QuizMapper) FolderToModel(f *entity.QuizFolder) *model.QuizFolder {
	if f == nil {
		return nil
	}
	return &model.QuizFolder{
		Id:          f.Id,
		UserId:      f.UserId,
		NotebookId:  f.NotebookId,
		Name:        f.Name,
		Description: f.Description,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func (m *QuizMapper) FoldersToEntities(items []*model.QuizFolder) []*entity.QuizFolder {
	entities := make([]*entity.QuizFolder, len(items))
	for i, f := range items {
		entities[i] = m.FolderToEntity(f)
	}
	return entities
}

func (m *QuizMapper) AttemptToEntity(a *model.QuizAttempt) *entity.QuizAttempt {
	if a == nil {
		return nil
	}
	return &entity.QuizAttempt{
		Id:             a.Id,
		UserId:         a.UserId,
		FolderId:       a.FolderId,
		Results:        []entity.AttemptResult(a.Results),
		TotalQuestions: a.TotalQuestions,
		CorrectCount:   a.CorrectCount,
		Summary:        a.Summary,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func (m *QuizMapper) AttemptToModel(a *entity.QuizAttempt) *model.QuizAttempt {
	if a == nil {
		return nil
	}
	results := a.Results
	if results == nil {
		results = []entity.AttemptResult{}
	}
	return &model.QuizAttempt{
		Id:             a.Id,
		UserId:         a.UserId,
		FolderId:       a.FolderId,
		Results:        datatypes.JSONSlice[entity.AttemptResult](results),
		TotalQuestions: a.TotalQuestions,
		CorrectCount:   a.CorrectCount,
		Summary:        a.Summary,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
