package service

import (
	"context"

	"github.com/iZhuoxx/AI-web/internal/pkg/logger"
	"github.com/iZhuoxx/AI-web/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// EventRelay forwards a decoded event to the broker.
type EventRelay interface {
	Publish(ctx context.Context, event events.Event) error
}

// EventDelivery pushes encoded events to connected clients.
type EventDelivery interface {
	Send(userID uuid.UUID, data []byte)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process topic. With a relay every event goes
// to the broker; without one it is delivered straight to the websocket hub.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	relay     EventRelay
	delivery  EventDelivery
	logger    logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	relay EventRelay,
	delivery EventDelivery,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		relay:     relay,
		delivery:  delivery,
		logger:    log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	event, err := events.Unmarshal(msg.Payload)
	if err != nil {
		cs.logger.Error("ConsumerService", "Dropping malformed event", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	if cs.relay == nil {
		if cs.delivery != nil {
			cs.delivery.Send(event.UserID(), msg.Payload)
		}
		msg.Ack()
		return
	}

	if err := cs.relay.Publish(ctx, event); err != nil {
		cs.logger.Warn("ConsumerService", "Relay failed, delivering locally", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
		if cs.delivery != nil {
			cs.delivery.Send(event.UserID(), msg.Payload)
		}
	}
	msg.Ack()
}
