package dto

import (
	"time"

	"github.com/spec-kit/booking-service/internal/domain"
)

// ServiceRefResponse is the populated service inside a booking.
type ServiceRefResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// BookingResponse is the public view of a booking. Service, user and provider
// are null when the referenced record no longer exists.
type BookingResponse struct {
	ID         string               `json:"id"`
	ServiceID  string               `json:"serviceId"`
	Service    *ServiceRefResponse  `json:"service"`
	User       *UserRefResponse     `json:"user"`
	Provider   *UserRefResponse     `json:"provider"`
	Status     domain.BookingStatus `json:"status"`
	Date       string               `json:"date"`
	Time       string               `json:"time"`
	TotalPrice float64              `json:"totalPrice"`
	Notes      string               `json:"notes"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}

// NewBookingResponse maps a booking to its public view.
func NewBookingResponse(b *domain.Booking) BookingResponse {
	resp := BookingResponse{
		ID:         b.ID,
		ServiceID:  b.ServiceID,
		User:       newUserRef(b.User),
		Provider:   newUserRef(b.Provider),
		Status:     b.Status,
		Date:       b.Date.Format(time.DateOnly),
		Time:       b.Time,
		TotalPrice: b.TotalPrice,
		Notes:      b.Notes,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
	if b.Service != nil {
		resp.Service = &ServiceRefResponse{
			ID:          b.Service.ID,
			Title:       b.Service.Title,
			Description: b.Service.Description,
			Price:       b.Service.Price,
		}
	}
	return resp
}

// NewBookingResponses maps a list of bookings.
func NewBookingResponses(bookings []domain.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, NewBookingResponse(&bookings[i]))
	}
	return out
}
