package implementation

import (
	"context"
	"database/sql"

	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/mapper"
	"github.com/iZhuoxx/AI-web/internal/model"
	"github.com/iZhuoxx/AI-web/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteRepositoryImpl struct {
	crudRepository[entity.Note, model.Note]
}

func NewNoteRepository(db *gorm.DB) contract.NoteRepository {
	m := mapper.NewNoteMapper()
	return &NoteRepositoryImpl{
		crudRepository: crudRepository[entity.Note, model.Note]{db: db, toEntity: m.ToEntity, toModel: m.ToModel},
	}
}

func (r *NoteRepositoryImpl) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Note{}).Error
}

func (r *NoteRepositoryImpl) ShiftSeqs(ctx context.Context, notebookId uuid.UUID, offset int) error {
	return r.db.WithContext(ctx).
		Model(&model.Note{}).
		Where("notebook_id = ?", notebookId).
		UpdateColumn("seq", gorm.Expr("seq + ?", offset)).Error
}

func (r *NoteRepositoryImpl) MaxSeq(ctx context.Context, notebookId uuid.UUID) (int, bool, error) {
	var max sql.NullInt64
	err := r.db.WithContext(ctx).
		Model(&model.Note{}).
		Where("notebook_id = ?", notebookId).
		Select("MAX(seq)").
		Scan(&max).Error
	if err != nil {
		return 0, false, err
	}
	return int(max.Int64), max.Valid, nil
}
