package service

import (
	"context"

	"marketplace-be/internal/pkg/logger"
	"marketplace-be/pkg/events"
	pktNats "marketplace-be/pkg/nats"
)

// IEventFeedService tails the commerce event stream into the application log
// so merges and settled refunds leave a durable, ordered trail.
type IEventFeedService interface {
	Start() error
}

type eventFeedService struct {
	subscriber *pktNats.Subscriber
	logger     logger.ILogger
}

func NewEventFeedService(subscriber *pktNats.Subscriber, sysLogger logger.ILogger) IEventFeedService {
	return &eventFeedService{
		subscriber: subscriber,
		logger:     sysLogger,
	}
}

func (s *eventFeedService) Start() error {
	return s.subscriber.Subscribe("commerce.>", "commerce-event-feed", func(ctx context.Context, event events.Event) error {
		s.logger.Info("EVENTS", event.EventType(), event.Payload())
		return nil
	})
}
