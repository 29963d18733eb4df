package contract

import (
	"context"

	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/repository/specification"

	"github.com/google/uuid"
)

type QuizFolderRepository interface {
	Create(ctx context.Context, folder *entity.QuizFolder) error
	Update(ctx context.Context, folder *entity.QuizFolder) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.QuizFolder, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QuizFolder, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
