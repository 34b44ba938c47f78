package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/booking-service/internal/domain"
	"github.com/spec-kit/booking-service/internal/events"
	"github.com/spec-kit/booking-service/internal/policy"
	"github.com/spec-kit/booking-service/internal/repository"
	"github.com/spec-kit/booking-service/internal/validation"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

// BookingService coordinates booking workflows.
type BookingService struct {
	bookings repository.BookingRepository
	services repository.ServiceRepository
	events   eventEmitter
}

// BookingDependencies bundles collaborators for the booking service.
type BookingDependencies struct {
	BookingRepo repository.BookingRepository
	ServiceRepo repository.ServiceRepository
	Dispatcher  events.Dispatcher
}

// NewBookingService builds the service.
func NewBookingService(deps BookingDependencies) *BookingService {
	return &BookingService{
		bookings: deps.BookingRepo,
		services: deps.ServiceRepo,
		events:   newEventEmitter(deps.Dispatcher),
	}
}

// BookingCreateInput is the payload for booking a service.
type BookingCreateInput struct {
	ServiceID string `json:"serviceId" validate:"required,uuid"`
	Date      string `json:"date" validate:"required,date"`
	Time      string `json:"time" validate:"required,max=20"`
	Notes     string `json:"notes" validate:"max=1000"`
}

// BookingUpdateInput carries the mutable booking fields. Nil fields are left unchanged.
type BookingUpdateInput struct {
	Status *string `json:"status" validate:"omitempty,oneof=pending confirmed cancelled completed"`
	Date   *string `json:"date" validate:"omitempty,date"`
	Time   *string `json:"time" validate:"omitempty,max=20"`
	Notes  *string `json:"notes" validate:"omitempty,max=1000"`
}

var bookingMessages = validation.Messages{
	"ServiceID.required": "Service is required",
	"ServiceID.uuid":     msgInvalidServiceID,
	"Date.required":      "Date is required",
	"Date.date":          msgInvalidDate,
	"Time.required":      "Time is required",
	"Time.max":           "Time cannot be more than 20 characters",
	"Notes.max":          "Notes cannot be more than 1000 characters",
	"Status.oneof":       "Invalid booking status",
}

const (
	msgInvalidDate = "Invalid date format"
	msgSlotTaken   = "Time slot already booked"
)

// Create books a service for the caller at the price the service currently lists.
func (s *BookingService) Create(ctx context.Context, identity domain.Identity, in BookingCreateInput) (*domain.Booking, error) {
	if err := policy.Authorize(identity, policy.ActionCreate, policy.ForBooking(nil)); err != nil {
		return nil, err
	}
	in.ServiceID = strings.ToLower(strings.TrimSpace(in.ServiceID))
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)
	if err := validation.Struct(in, bookingMessages); err != nil {
		return nil, err
	}
	date, _ := validation.ParseDate(in.Date)
	serviceID, err := parseServiceID(in.ServiceID)
	if err != nil {
		return nil, err
	}

	service, err := s.services.GetByID(ctx, serviceID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("Service", nil)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	booking := &domain.Booking{
		ID:         uuid.NewString(),
		ServiceID:  service.ID,
		UserID:     identity.UserID,
		ProviderID: service.ProviderID,
		Status:     domain.BookingStatusPending,
		Date:       date,
		Time:       in.Time,
		TotalPrice: service.Price,
		Notes:      in.Notes,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict(msgSlotTaken, nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.events.publishEvent(ctx, events.Event{
		Type:        events.EventBookingCreated,
		AggregateID: booking.ID,
		Actor:       actorOf(identity),
		Payload: events.BookingCreatedPayload{
			ServiceID:  booking.ServiceID,
			UserID:     booking.UserID,
			ProviderID: booking.ProviderID,
			Date:       booking.Date.Format(time.DateOnly),
			Time:       booking.Time,
			TotalPrice: booking.TotalPrice,
		},
	})
	return s.reload(ctx, booking)
}

// List returns the bookings visible to the caller.
func (s *BookingService) List(ctx context.Context, identity domain.Identity) ([]domain.Booking, error) {
	bookings, err := s.bookings.List(ctx, policy.BookingScope(identity))
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return bookings, nil
}

// Get returns one booking to a party of it.
func (s *BookingService) Get(ctx context.Context, identity domain.Identity, id string) (*domain.Booking, error) {
	booking, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(identity, policy.ActionRead, policy.ForBooking(booking)); err != nil {
		return nil, err
	}
	return booking, nil
}

// Update changes status, date, time or notes. Only the provider or an admin may change status.
func (s *BookingService) Update(ctx context.Context, identity domain.Identity, id string, in BookingUpdateInput) (*domain.Booking, error) {
	booking, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(identity, policy.ActionUpdate, policy.ForBooking(booking)); err != nil {
		return nil, err
	}

	in.Status = blankToNil(in.Status)
	in.Date = blankToNil(in.Date)
	in.Time = blankToNil(in.Time)
	if in.Status != nil {
		if err := policy.Authorize(identity, policy.ActionUpdateStatus, policy.ForBooking(booking)); err != nil {
			return nil, err
		}
	}
	if err := validation.Struct(in, bookingMessages); err != nil {
		return nil, err
	}

	previous := booking.Status
	if in.Status != nil {
		booking.Status = domain.BookingStatus(*in.Status)
	}
	if in.Date != nil {
		booking.Date, _ = validation.ParseDate(*in.Date)
	}
	if in.Time != nil {
		booking.Time = *in.Time
	}
	if in.Notes != nil {
		booking.Notes = *in.Notes
	}

	if err := s.bookings.Update(ctx, booking); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NewNotFound("Booking", nil)
		case errors.Is(err, repository.ErrDuplicate):
			return nil, apperrors.NewConflict(msgSlotTaken, nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	if booking.Status != previous {
		s.events.publishEvent(ctx, events.Event{
			Type:        events.EventBookingStatusChanged,
			AggregateID: booking.ID,
			Actor:       actorOf(identity),
			Payload:     events.BookingStatusChangedPayload{OldStatus: previous, NewStatus: booking.Status},
		})
	}
	return s.reload(ctx, booking)
}

// Delete removes a booking. Only the requester or an admin may do so.
func (s *BookingService) Delete(ctx context.Context, identity domain.Identity, id string) error {
	booking, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(identity, policy.ActionDelete, policy.ForBooking(booking)); err != nil {
		return err
	}
	if err := s.bookings.Delete(ctx, booking.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("Booking", nil)
		}
		return apperrors.NewInternalError(err)
	}

	s.events.publishEvent(ctx, events.Event{
		Type:        events.EventBookingDeleted,
		AggregateID: booking.ID,
		Actor:       actorOf(identity),
		Payload:     events.BookingDeletedPayload{ServiceID: booking.ServiceID, UserID: booking.UserID},
	})
	return nil
}

// find loads a booking. Malformed ids cannot exist and report not found.
func (s *BookingService) find(ctx context.Context, raw string) (*domain.Booking, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, apperrors.NewNotFound("Booking", nil)
	}
	booking, err := s.bookings.GetByID(ctx, id.String())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("Booking", nil)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return booking, nil
}

func (s *BookingService) reload(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	fresh, err := s.bookings.GetByID(ctx, booking.ID)
	if err != nil {
		return booking, nil
	}
	return fresh, nil
}

func blankToNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
