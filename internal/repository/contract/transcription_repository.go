package contract

import (
	"context"

	"github.com/iZhuoxx/AI-web/internal/entity"

	"github.com/google/uuid"
)

type TranscriptionRepository interface {
	// CreateSession stores the session and its segments.
	CreateSession(ctx context.Context, session *entity.TranscriptionSession) error
	FindByAttachment(ctx context.Context, attachmentId uuid.UUID) (*entity.TranscriptionSession, error)
}
