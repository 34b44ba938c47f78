package events

import (
	"strings"
	"time"

	"github.com/spec-kit/booking-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventServiceCreated       EventType = "service_created"
	EventServiceDeleted       EventType = "service_deleted"
	EventBookingCreated       EventType = "booking_created"
	EventBookingStatusChanged EventType = "booking_status_changed"
	EventBookingDeleted       EventType = "booking_deleted"
)

// AllEventTypes lists every event the services emit.
var AllEventTypes = []EventType{
	EventServiceCreated,
	EventServiceDeleted,
	EventBookingCreated,
	EventBookingStatusChanged,
	EventBookingDeleted,
}

// RoutingKey converts the type to a dotted broker routing key, e.g. booking.created.
func (t EventType) RoutingKey() string {
	return strings.Replace(string(t), "_", ".", 1)
}

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	AggregateID string    `json:"aggregate_id"`
	Actor       Actor     `json:"actor"`
	Timestamp   time.Time `json:"timestamp"`
	Payload     any       `json:"payload"`
}

// ServiceCreatedPayload payload.
type ServiceCreatedPayload struct {
	ProviderID string          `json:"provider_id"`
	Title      string          `json:"title"`
	Category   domain.Category `json:"category"`
	Price      float64         `json:"price"`
}

// ServiceDeletedPayload payload.
type ServiceDeletedPayload struct {
	ProviderID string `json:"provider_id"`
}

// BookingCreatedPayload payload.
type BookingCreatedPayload struct {
	ServiceID  string  `json:"service_id"`
	UserID     string  `json:"user_id"`
	ProviderID string  `json:"provider_id"`
	Date       string  `json:"date"`
	Time       string  `json:"time"`
	TotalPrice float64 `json:"total_price"`
}

// BookingStatusChangedPayload payload.
type BookingStatusChangedPayload struct {
	OldStatus domain.BookingStatus `json:"old_status"`
	NewStatus domain.BookingStatus `json:"new_status"`
}

// BookingDeletedPayload payload.
type BookingDeletedPayload struct {
	ServiceID string `json:"service_id"`
	UserID    string `json:"user_id"`
}
