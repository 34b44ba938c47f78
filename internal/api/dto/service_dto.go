package dto

import (
	"time"

	"github.com/spec-kit/booking-service/internal/domain"
	"github.com/spec-kit/booking-service/internal/query"
)

// AvailabilityResponse mirrors domain.Availability.
type AvailabilityResponse struct {
	Days      []string `json:"days"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
}

// ServiceResponse is the public view of a service. Provider is populated with
// name and email when the owning account exists.
type ServiceResponse struct {
	ID           string               `json:"id"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Category     domain.Category      `json:"category"`
	Price        float64              `json:"price"`
	Duration     int                  `json:"duration"`
	Availability AvailabilityResponse `json:"availability"`
	Provider     *UserRefResponse     `json:"provider"`
	Image        *string              `json:"image,omitempty"`
	Rating       *float64             `json:"rating,omitempty"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

// NewServiceResponse maps a service to its public view.
func NewServiceResponse(s *domain.Service) ServiceResponse {
	provider := newUserRef(s.Provider)
	if provider == nil {
		provider = &UserRefResponse{ID: s.ProviderID}
	}
	return ServiceResponse{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Category:    s.Category,
		Price:       s.Price,
		Duration:    s.Duration,
		Availability: AvailabilityResponse{
			Days:      s.Availability.Days,
			StartTime: s.Availability.StartTime,
			EndTime:   s.Availability.EndTime,
		},
		Provider:  provider,
		Image:     s.Image,
		Rating:    s.Rating,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// Project keeps only the selected fields. The id is always kept. An empty
// selection returns the full response.
func (r ServiceResponse) Project(fields []string) any {
	if len(fields) == 0 {
		return r
	}
	all := map[string]any{
		"id":           r.ID,
		"title":        r.Title,
		"description":  r.Description,
		"category":     r.Category,
		"price":        r.Price,
		"duration":     r.Duration,
		"availability": r.Availability,
		"provider":     r.Provider,
		"image":        r.Image,
		"rating":       r.Rating,
		"createdAt":    r.CreatedAt,
		"updatedAt":    r.UpdatedAt,
	}
	out := map[string]any{"id": r.ID}
	for _, f := range fields {
		if v, ok := all[f]; ok {
			out[f] = v
		}
	}
	return out
}

// ServiceListResponse is the envelope for get-services.
type ServiceListResponse struct {
	Success    bool             `json:"success"`
	Count      int              `json:"count"`
	Pagination query.Pagination `json:"pagination"`
	Data       []any            `json:"data"`
}

// NewServiceListResponse shapes one page of services with projection applied.
func NewServiceListResponse(services []domain.Service, q query.ListQuery) ServiceListResponse {
	data := make([]any, 0, len(services))
	for i := range services {
		data = append(data, NewServiceResponse(&services[i]).Project(q.Projection))
	}
	return ServiceListResponse{
		Success:    true,
		Count:      len(services),
		Pagination: q.Paginate(len(services)),
		Data:       data,
	}
}
