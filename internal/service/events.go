package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/booking-service/internal/domain"
	"github.com/spec-kit/booking-service/internal/events"
)

// eventEmitter stamps and publishes domain events. A nil dispatcher drops them.
type eventEmitter struct {
	dispatcher events.Dispatcher
	now        func() time.Time
}

func newEventEmitter(dispatcher events.Dispatcher) eventEmitter {
	return eventEmitter{dispatcher: dispatcher, now: time.Now}
}

func (e eventEmitter) publishEvent(ctx context.Context, event events.Event) {
	if e.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = e.now().UTC()
	}
	_ = e.dispatcher.Publish(ctx, event)
}

func actorOf(identity domain.Identity) events.Actor {
	return events.Actor{UserID: identity.UserID, Role: identity.Role}
}
