package mapper

import (
	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/model"

	"gorm.io/datatypes"
)

type MindMapMapper struct{}

func NewMindMapMapper() *MindMapMapper {
	return &MindMapMapper{}
}

func (m *MindMapMapper) ToEntity(mm *model.MindMap) *entity.MindMap {
	if mm == nil {
		return nil
	}
	return &entity.MindMap{
		Id:         mm.Id,
		UserId:     mm.UserId,
		NotebookId: mm.NotebookId,
		Title:      mm.Title,
		Data:       mm.Data.Data(),
		CreatedAt:  mm.CreatedAt,
		UpdatedAt:  mm.UpdatedAt,
	}
}

func (m *MindMapMapper) ToModel(mm *entity.MindMap) *model.MindMap {
	if mm == nil {
		return nil
	}
	return &model.MindMap{
		Id:         mm.Id,
		UserId:     mm.UserId,
		NotebookId: mm.NotebookId,
		Title:      mm.Title,
		Data:       datatypes.NewJSONType(mm.Data),
		CreatedAt:  mm.CreatedAt,
		UpdatedAt:  mm.UpdatedAt,
	}
}

func (m *MindMapMapper) ToEntities(items []*model.MindMap) []*entity.MindMap {
	entities := make([]*entity.MindMap, len(items))
	for i, mm := range items {
		entities[i] = m.ToEntity(mm)
	}
	return entities
}
