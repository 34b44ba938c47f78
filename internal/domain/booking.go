package domain

import "time"

// BookingStatus enumerates lifecycle states for bookings.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Valid reports whether s is a known status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// Active reports whether the booking still holds its time slot.
func (s BookingStatus) Active() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// Booking is a request by a user for a provider's service.
// ProviderID and TotalPrice are copied from the service when the booking is made.
type Booking struct {
	ID         string
	ServiceID  string
	UserID     string
	ProviderID string
	Status     BookingStatus
	Date       time.Time
	Time       string
	TotalPrice float64
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Service  *ServiceRef
	User     *UserRef
	Provider *UserRef
}

// BookingScope restricts which bookings a listing returns. Empty fields do not filter.
type BookingScope struct {
	UserID     string
	ProviderID string
}
