package contract

import (
	"context"

	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/repository/specification"

	"github.com/google/uuid"
)

type FlashcardFolderRepository interface {
	Create(ctx context.Context, folder *entity.FlashcardFolder) error
	Update(ctx context.Context, folder *entity.FlashcardFolder) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FlashcardFolder, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FlashcardFolder, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
