package contract

import (
	"context"

	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/repository/specification"

	"github.com/google/uuid"
)

type MindMapRepository interface {
	Create(ctx context.Context, mindMap *entity.MindMap) error
	Update(ctx context.Context, mindMap *entity.MindMap) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MindMap, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MindMap, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
