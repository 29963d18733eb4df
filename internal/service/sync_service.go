package service

import (
	"context"

	"github.com/iZhuoxx/AI-web/internal/pkg/logger"
	"github.com/iZhuoxx/AI-web/pkg/events"
)

// EventSubscriber is the broker side of the relay.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject string, durableName string, handler func(ctx context.Context, event events.Event) error) error
}

// SyncService pushes every domain event from the broker to the owner's
// websocket clients.
type SyncService struct {
	subscriber EventSubscriber
	delivery   EventDelivery
	logger     logger.ILogger
}

func NewSyncService(sub EventSubscriber, delivery EventDelivery, log logger.ILogger) *SyncService {
	return &SyncService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start subscribes a durable consumer to every event subject.
func (s *SyncService) Start(ctx context.Context) error {
	if err := s.subscriber.Subscribe(ctx, "events.>", "sync-service-worker", s.handleEvent); err != nil {
		s.logger.Error("SyncService", "Failed to start sync subscriber", map[string]interface{}{"error": err.Error()})
		return err
	}
	s.logger.Info("SyncService", "Sync service started, listening to events.>", nil)
	return nil
}

func (s *SyncService) handleEvent(ctx context.Context, event events.Event) error {
	data, err := events.Marshal(event)
	if err != nil {
		// Re-encoding a decoded event cannot succeed on retry.
		s.logger.Warn("SyncService", "Skipping unencodable event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
		return nil
	}

	s.logger.Debug("SyncService", "Delivering event", map[string]interface{}{
		"type":    event.EventType(),
		"user_id": event.UserID().String(),
	})
	if s.delivery != nil {
		s.delivery.Send(event.UserID(), data)
	}
	return nil
}
