package domain

import "time"

// Category is a closed set of service tags.
type Category string

// Categories lists every accepted service category.
var Categories = []Category{
	"home", "health", "education", "beauty", "tech", "events", "automotive",
	"sports", "food", "travel", "fitness", "pets", "music", "art", "fashion",
	"photography", "wellness", "business", "finance", "real estate",
	"construction", "cleaning", "gardening", "transportation", "security", "other",
}

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Weekday names accepted in availability.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Availability describes when a service can be booked. Times use HH:MM.
type Availability struct {
	Days      []string
	StartTime string
	EndTime   string
}

// Service is a bookable offering owned by a provider.
type Service struct {
	ID           string
	Title        string
	Description  string
	Category     Category
	Price        float64
	Duration     int
	Availability Availability
	ProviderID   string
	Image        *string
	Rating       *float64
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Provider is populated on reads that join the owning user.
	Provider *UserRef
}

// ServiceRef is the populated view of a service embedded in bookings.
type ServiceRef struct {
	ID          string
	Title       string
	Description string
	Price       float64
}
