package implementation

import (
	"context"
	"time"

	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/mapper"
	"github.com/iZhuoxx/AI-web/internal/model"
	"github.com/iZhuoxx/AI-web/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotebookRepositoryImpl struct {
	crudRepository[entity.Notebook, model.Notebook]
}

func NewNotebookRepository(db *gorm.DB) contract.NotebookRepository {
	m := mapper.NewNotebookMapper()
	return &NotebookRepositoryImpl{
		crudRepository: crudRepository[entity.Notebook, model.Notebook]{db: db, toEntity: m.ToEntity, toModel: m.ToModel},
	}
}

func (r *NotebookRepositoryImpl) Touch(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Notebook{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", time.Now()).Error
}

type NotebookFolderRepositoryImpl struct {
	crudRepository[entity.NotebookFolder, model.NotebookFolder]
}

func NewNotebookFolderRepository(db *gorm.DB) contract.NotebookFolderRepository {
	m := mapper.NewNotebookMapper()
	return &NotebookFolderRepositoryImpl{
		crudRepository: crudRepository[entity.NotebookFolder, model.NotebookFolder]{db: db, toEntity: m.FolderToEntity, toModel: m.FolderToModel},
	}
}
