package mapper

import (
	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/model"
)

type NotebookMapper struct{}

func NewNotebookMapper() *NotebookMapper {
	return &NotebookMapper{}
}

func (m *NotebookMapper) ToEntity(n *model.Notebook) *entity.Notebook {
	if n == nil {
		return nil
	}
	return &entity.Notebook{
		Id:                   n.Id,
		UserId:               n.UserId,
		Title:                n.Title,
		Summary:              n.Summary,
		IsArchived:           n.IsArchived,
		Color:                n.Color,
		OpenaiVectorStoreId:  n.OpenaiVectorStoreId,
		VectorStoreExpiresAt: n.VectorStoreExpiresAt,
		CreatedAt:            n.CreatedAt,
		UpdatedAt:            n.UpdatedAt,
	}
}

func (m *NotebookMapper) ToModel(n *entity.Notebook) *model.Notebook {
	if n == nil {
		return nil
	}
	return &model.Notebook{
		Id:                   n.Id,
		UserId:               n.UserId,
		Title:                n.Title,
		Summary:              n.Summary,
		IsArchived:           n.IsArchived,
		Color:                n.Color,
		OpenaiVectorStoreId:  n.OpenaiVectorStoreId,
		VectorStoreExpiresAt: n.VectorStoreExpiresAt,
		CreatedAt:            n.CreatedAt,
		UpdatedAt:            n.UpdatedAt,
	}
}

func (m *NotebookMapper) ToEntities(notebooks []*model.Notebook) []*entity.Notebook {
	entities := make([]*entity.Notebook, len(notebooks))
	for i, n := range notebooks {
		entities[i] = m.ToEntity(n)
	}
	return entities
}

func (m *NotebookMapper) FolderToEntity(f *model.NotebookFolder) *entity.NotebookFolder {
	if f == nil {
		return nil
	}
	return &entity.NotebookFolder{
		Id:          f.Id,
		UserId:      f.UserId,
		Name:        f.Name,
		Description: f.Description,
		Color:       f.Color,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func (m *NotebookMapper) FolderToModel(f *entity.NotebookFolder) *model.NotebookFolder {
	if f == nil {
		return nil
	}
	return &model.NotebookFolder{
		Id:          f.Id,
		UserId:      f.UserId,
		Name:        f.Name,
		Description: f.Description,
		Color:       f.Color,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func (m *NotebookMapper) FoldersToEntities(folders []*model.NotebookFolder) []*entity.NotebookFolder {
	entities := make([]*entity.NotebookFolder, len(folders))
	for i, f := range folders {
		entities[i] = m.FolderToEntity(f)
	}
	return entities
}
