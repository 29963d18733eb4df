package contract

import (
	"context"

	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/repository/specification"

	"github.com/google/uuid"
)

type QuizQuestionRepository interface {
	Create(ctx context.Context, question *entity.QuizQuestion) error
	Update(ctx context.Context, question *entity.QuizQuestion) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.QuizQuestion, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QuizQuestion, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
