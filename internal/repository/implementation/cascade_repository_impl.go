package implementation

import (
	"context"
	"fmt"

	"github.com/iZhuoxx/AI-web/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CascadeRepositoryImpl only receives table and column names from the static ownership table.
type CascadeRepositoryImpl struct {
	db *gorm.DB
}

func NewCascadeRepository(db *gorm.DB) contract.CascadeRepository {
	return &CascadeRepositoryImpl{db: db}
}

func (r *CascadeRepositoryImpl) PluckIDs(ctx context.Context, table, column string, values []uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if len(values) == 0 {
		return ids, nil
	}
	err := r.db.WithContext(ctx).
		Table(table).
		Where(column+" IN ?", values).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *CascadeRepositoryImpl) DeleteWhere(ctx context.Context, table, column string, values []uuid.UUID) (int64, error) {
	if len(values) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Exec(fmt.Sprintf("DELETE FROM %s WHERE %s IN ?", table, column), values)
	return res.RowsAffected, res.Error
}

func (r *CascadeRepositoryImpl) Nullify(ctx context.Context, table, column string, values []uuid.UUID) error {
	if len(values) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Exec(fmt.Sprintf("UPDATE %s SET %s = NULL WHERE %s IN ?", table, column, column), values).Error
}
