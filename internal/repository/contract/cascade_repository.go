package contract

import (
	"context"

	"github.com/google/uuid"
)

// CascadeRepository runs the untyped statements used by the cascading delete.
type CascadeRepository interface {
	PluckIDs(ctx context.Context, table, column string, values []uuid.UUID) ([]uuid.UUID, error)
	DeleteWhere(ctx context.Context, table, column string, values []uuid.UUID) (int64, error)
	Nullify(ctx context.Context, table, column string, values []uuid.UUID) error
}
