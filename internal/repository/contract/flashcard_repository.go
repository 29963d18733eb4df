package contract

import (
	"context"

	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/repository/specification"

	"github.com/google/uuid"
)

type FlashcardRepository interface {
	Create(ctx context.Context, card *entity.Flashcard) error
	Update(ctx context.Context, card *entity.Flashcard) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Flashcard, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Flashcard, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
