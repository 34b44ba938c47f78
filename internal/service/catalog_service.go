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
	"github.com/spec-kit/booking-service/internal/query"
	"github.com/spec-kit/booking-service/internal/repository"
	"github.com/spec-kit/booking-service/internal/validation"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

// CatalogService manages the services providers offer.
type CatalogService struct {
	services repository.ServiceRepository
	events   eventEmitter
}

// CatalogDependencies bundles collaborators for the catalog service.
type CatalogDependencies struct {
	ServiceRepo repository.ServiceRepository
	Dispatcher  events.Dispatcher
}

// NewCatalogService builds the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	return &CatalogService{services: deps.ServiceRepo, events: newEventEmitter(deps.Dispatcher)}
}

// AvailabilityInput describes the weekly window a service can be booked in.
type AvailabilityInput struct {
	Days      []string `json:"days" validate:"required,min=1,dive,weekday"`
	StartTime string   `json:"startTime" validate:"required,clock"`
	EndTime   string   `json:"endTime" validate:"required,clock"`
}

// ServiceInput is the create and update payload for a service.
type ServiceInput struct {
	Title        string             `json:"title" validate:"required,max=100"`
	Description  string             `json:"description" validate:"required,max=500"`
	Category     string             `json:"category" validate:"required,category"`
	Price        *float64           `json:"price" validate:"required,gte=0"`
	Duration     *int               `json:"duration" validate:"required,gte=1"`
	Availability *AvailabilityInput `json:"availability" validate:"required"`
	Image        *string            `json:"image" validate:"omitempty,url"`
	Rating       *float64           `json:"rating" validate:"omitempty,gte=1,lte=5"`
}

var serviceMessages = validation.Messages{
	"Title.required":       "Title is required",
	"Title.max":            "Title cannot be more than 100 characters",
	"Description.required": "Description is required",
	"Description.max":      "Description cannot be more than 500 characters",
	"Category.required":    "Category is required",
	"Category.category":    "Invalid category",
	"Price":                "Price must be a positive number",
	"Duration":             "Duration must be a positive number",
	"Availability":         "Availability is required",
	"Days.required":        "Days are required",
	"Days.min":             "Days are required",
	"Days.weekday":         "Invalid day in availability",
	"StartTime.required":   "Start time is required",
	"StartTime.clock":      "Start time must use HH:MM format",
	"EndTime.required":     "End time is required",
	"EndTime.clock":        "End time must use HH:MM format",
	"Image.url":            "Image must be a valid URL",
	"Rating.gte":           "Rating must be at least 1",
	"Rating.lte":           "Rating cannot be more than 5",
}

const (
	msgInvalidServiceID = "Invalid service ID"
	msgEndBeforeStart   = "End time must be after start time"
)

func (in *ServiceInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	if in.Availability != nil {
		in.Availability.StartTime = strings.TrimSpace(in.Availability.StartTime)
		in.Availability.EndTime = strings.TrimSpace(in.Availability.EndTime)
	}
	if in.Image != nil && strings.TrimSpace(*in.Image) == "" {
		in.Image = nil
	}
}

func (in *ServiceInput) validate() error {
	in.normalize()
	if err := validation.Struct(in, serviceMessages); err != nil {
		return err
	}
	start, _ := time.Parse(validation.ClockLayout, in.Availability.StartTime)
	end, _ := time.Parse(validation.ClockLayout, in.Availability.EndTime)
	if !start.Before(end) {
		return apperrors.NewValidationError(msgEndBeforeStart, map[string]any{"field": "endTime"})
	}
	return nil
}

func (in *ServiceInput) apply(s *domain.Service) {
	s.Title = in.Title
	s.Description = in.Description
	s.Category = domain.Category(in.Category)
	s.Price = *in.Price
	s.Duration = *in.Duration
	s.Availability = domain.Availability{
		Days:      append([]string(nil), in.Availability.Days...),
		StartTime: in.Availability.StartTime,
		EndTime:   in.Availability.EndTime,
	}
	s.Image = in.Image
	s.Rating = in.Rating
}

// Create publishes a new service owned by the caller.
func (s *CatalogService) Create(ctx context.Context, identity domain.Identity, in ServiceInput) (*domain.Service, error) {
	if err := policy.Authorize(identity, policy.ActionCreate, policy.ForService(nil)); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	service := &domain.Service{ID: uuid.NewString(), ProviderID: identity.UserID}
	in.apply(service)
	if err := s.services.Create(ctx, service); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.events.publishEvent(ctx, events.Event{
		Type:        events.EventServiceCreated,
		AggregateID: service.ID,
		Actor:       actorOf(identity),
		Payload: events.ServiceCreatedPayload{
			ProviderID: service.ProviderID,
			Title:      service.Title,
			Category:   service.Category,
			Price:      service.Price,
		},
	})
	return s.reload(ctx, service)
}

// List returns one page of services matching the raw query parameters, along
// with the translated query used for projection and pagination.
func (s *CatalogService) List(ctx context.Context, params map[string]string) ([]domain.Service, query.ListQuery, error) {
	q, err := query.Translate(params, repository.ServiceSchema)
	if err != nil {
		return nil, query.ListQuery{}, err
	}
	services, err := s.services.List(ctx, q)
	if err != nil {
		return nil, query.ListQuery{}, apperrors.NewInternalError(err)
	}
	return services, q, nil
}

// Get returns a single service with its provider populated.
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Service, error) {
	id, err := parseServiceID(id)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, id)
}

// Update replaces the editable fields of a service. Ownership never changes.
func (s *CatalogService) Update(ctx context.Context, identity domain.Identity, id string, in ServiceInput) (*domain.Service, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	id, err := parseServiceID(id)
	if err != nil {
		return nil, err
	}
	service, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(identity, policy.ActionUpdate, policy.ForService(service)); err != nil {
		return nil, err
	}

	in.apply(service)
	if err := s.services.Update(ctx, service); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Service", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return s.reload(ctx, service)
}

// Delete removes a service. Bookings that reference it are kept.
func (s *CatalogService) Delete(ctx context.Context, identity domain.Identity, id string) error {
	id, err := parseServiceID(id)
	if err != nil {
		return err
	}
	service, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(identity, policy.ActionDelete, policy.ForService(service)); err != nil {
		return err
	}
	if err := s.services.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("Service", nil)
		}
		return apperrors.NewInternalError(err)
	}

	s.events.publishEvent(ctx, events.Event{
		Type:        events.EventServiceDeleted,
		AggregateID: id,
		Actor:       actorOf(identity),
		Payload:     events.ServiceDeletedPayload{ProviderID: service.ProviderID},
	})
	return nil
}

func (s *CatalogService) find(ctx context.Context, id string) (*domain.Service, error) {
	service, err := s.services.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("Service", nil)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return service, nil
}

// reload fetches the stored row so responses carry the populated provider.
func (s *CatalogService) reload(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	fresh, err := s.services.GetByID(ctx, service.ID)
	if err != nil {
		return service, nil
	}
	return fresh, nil
}

func parseServiceID(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", apperrors.NewValidationError(msgInvalidServiceID, nil)
	}
	return id.String(), nil
}
