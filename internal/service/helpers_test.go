package service

import (
	"context"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/booking-service/internal/config"
	"github.com/spec-kit/booking-service/internal/domain"
	"github.com/spec-kit/booking-service/internal/events"
	"github.com/spec-kit/booking-service/internal/repository"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

var testAuthConfig = config.AuthConfig{
	JWTSecret:       "test-secret",
	TokenExpiryDays: 7,
	BcryptCost:      bcrypt.MinCost,
}

type recordedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordedEvents) handler(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordedEvents) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	store    *repository.MemoryStore
	auth     *AuthService
	catalog  *CatalogService
	bookings *BookingService
	events   *recordedEvents
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	dispatcher := events.NewInMemoryDispatcher(nil)
	rec := &recordedEvents{}
	for _, et := range events.AllEventTypes {
		dispatcher.Subscribe(et, rec.handler)
	}
	return &fixture{
		store: store,
		auth:  NewAuthService(testAuthConfig, AuthDependencies{UserRepo: store.Users()}),
		catalog: NewCatalogService(CatalogDependencies{
			ServiceRepo: store.Services(),
			Dispatcher:  dispatcher,
		}),
		bookings: NewBookingService(BookingDependencies{
			BookingRepo: store.Bookings(),
			ServiceRepo: store.Services(),
			Dispatcher:  dispatcher,
		}),
		events: rec,
	}
}

// account signs up and returns the identity a verified session would carry.
func (f *fixture) account(t *testing.T, name string, role domain.Role) domain.Identity {
	t.Helper()
	in := SignupInput{Name: name, Email: name + "@example.com", Password: "secret123"}
	if role == domain.RoleAdmin {
		u, err := f.auth.CreateAdmin(context.Background(), in.Name, in.Email, in.Password)
		if err != nil {
			t.Fatalf("create admin: %v", err)
		}
		return domain.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
	}
	in.Role = string(role)
	session, err := f.auth.Signup(context.Background(), in)
	if err != nil {
		t.Fatalf("signup %s: %v", name, err)
	}
	return domain.Identity{UserID: session.User.ID, Email: session.User.Email, Role: session.User.Role}
}

func validServiceInput() ServiceInput {
	price := 50.0
	duration := 60
	return ServiceInput{
		Title:       "Deep cleaning",
		Description: "Whole apartment",
		Category:    "cleaning",
		Price:       &price,
		Duration:    &duration,
		Availability: &AvailabilityInput{
			Days:      []string{"Monday", "Friday"},
			StartTime: "09:00",
			EndTime:   "17:00",
		},
	}
}

func (f *fixture) service(t *testing.T, provider domain.Identity) *domain.Service {
	t.Helper()
	s, err := f.catalog.Create(context.Background(), provider, validServiceInput())
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	return s
}

func (f *fixture) booking(t *testing.T, user domain.Identity, serviceID, date, at string) *domain.Booking {
	t.Helper()
	b, err := f.bookings.Create(context.Background(), user, BookingCreateInput{ServiceID: serviceID, Date: date, Time: at})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return b
}

func expectCode(t *testing.T, err error, code string, message string) {
	t.Helper()
	if !apperrors.HasCode(err, code) {
		t.Fatalf("expected %s, got %v", code, err)
	}
	if message != "" && apperrors.ToDomainError(err).Message != message {
		t.Fatalf("message = %q, want %q", apperrors.ToDomainError(err).Message, message)
	}
}
