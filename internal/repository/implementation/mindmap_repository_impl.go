package implementation

import (
	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/mapper"
	"github.com/iZhuoxx/AI-web/internal/model"
	"github.com/iZhuoxx/AI-web/internal/repository/contract"

	"gorm.io/gorm"
)

type MindMapRepositoryImpl struct {
	crudRepository[entity.MindMap, model.MindMap]
}

func NewMindMapRepository(db *gorm.DB) contract.MindMapRepository {
	m := mapper.NewMindMapMapper()
	return &MindMapRepositoryImpl{
		crudRepository: crudRepository[entity.MindMap, model.MindMap]{db: db, toEntity: m.ToEntity, toModel: m.ToModel},
	}
}
