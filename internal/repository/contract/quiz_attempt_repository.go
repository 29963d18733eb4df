package contract

import (
	"context"

	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/repository/specification"

	"github.com/google/uuid"
)

type QuizAttemptRepository interface {
	Create(ctx context.Context, attempt *entity.QuizAttempt) error
	Update(ctx context.Context, attempt *entity.QuizAttempt) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.QuizAttempt, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QuizAttempt, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
