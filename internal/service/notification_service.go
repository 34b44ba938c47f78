package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/booking-service/internal/events"
)

// EventPublisher forwards events to an external broker.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	publisher  EventPublisher
}

// NewNotificationService creates the service. publisher may be nil, in which case
// events are only logged.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, publisher EventPublisher) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		publisher:  publisher,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes {
		n.dispatcher.Subscribe(eventType, n.handle)
	}
}

func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("aggregate_id", event.AggregateID),
		zap.String("actor_id", event.Actor.UserID),
		zap.Any("payload", event.Payload))
	if n.publisher == nil {
		return nil
	}
	return n.publisher.PublishJSON(ctx, event.Type.RoutingKey(), event)
}
