package service

import (
	"context"

	"github.com/iZhuoxx/AI-web/internal/pkg/logger"
	"github.com/iZhuoxx/AI-web/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IPublisherService puts domain events on the in-process bus. Callers publish
// after their transaction has committed.
type IPublisherService interface {
	Publish(ctx context.Context, event events.Event)
}

type publisherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	logger    logger.ILogger
}

func NewPublisherService(pubSub *gochannel.GoChannel, topicName string, log logger.ILogger) IPublisherService {
	return &publisherService{
		pubSub:    pubSub,
		topicName: topicName,
		logger:    log,
	}
}

// Publish never fails the caller; the change is already committed.
func (s *publisherService) Publish(ctx context.Context, event events.Event) {
	payload, err := events.Marshal(event)
	if err != nil {
		s.logger.Error("PublisherService", "Failed to encode event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	if err := s.pubSub.Publish(s.topicName, msg); err != nil {
		s.logger.Error("PublisherService", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event events.Event) {}
