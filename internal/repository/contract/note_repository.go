package contract

import (
	"context"

	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/repository/specification"

	"github.com/google/uuid"
)

type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	Update(ctx context.Context, note *entity.Note) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	DeleteByIDs(ctx context.Context, ids []uuid.UUID) error
	// ShiftSeqs adds offset to the seq of every note in the notebook in one statement.
	ShiftSeqs(ctx context.Context, notebookId uuid.UUID, offset int) error
	MaxSeq(ctx context.Context, notebookId uuid.UUID) (int, bool, error)
}
