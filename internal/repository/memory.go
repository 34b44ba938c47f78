package repository

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/booking-service/internal/domain"
	"github.com/spec-kit/booking-service/internal/query"
)

// MemoryStore keeps users, services and bookings in process memory. It backs local
// runs without Postgres and the test suites, and enforces the same unique
// constraints as the SQL schema.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]domain.User
	services map[string]domain.Service
	bookings map[string]domain.Booking
	now      func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]domain.User),
		services: make(map[string]domain.Service),
		bookings: make(map[string]domain.Booking),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Users exposes the store as a UserRepository.
func (m *MemoryStore) Users() UserRepository { return memoryUsers{m} }

// Services exposes the store as a ServiceRepository.
func (m *MemoryStore) Services() ServiceRepository { return memoryServices{m} }

// Bookings exposes the store as a BookingRepository.
func (m *MemoryStore) Bookings() BookingRepository { return memoryBookings{m} }

type memoryUsers struct{ m *MemoryStore }

func (r memoryUsers) Create(_ context.Context, user *domain.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, exists := r.m.users[user.ID]; exists {
		return ErrDuplicate
	}
	for _, u := range r.m.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}
	now := r.m.now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.m.users[user.ID] = *user
	return nil
}

func (r memoryUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	for _, u := range r.m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

type memoryServices struct{ m *MemoryStore }

func (r memoryServices) Create(_ context.Context, service *domain.Service) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, exists := r.m.services[service.ID]; exists {
		return ErrDuplicate
	}
	now := r.m.now()
	service.CreatedAt, service.UpdatedAt = now, now
	stored := cloneService(*service)
	stored.Provider = nil
	r.m.services[service.ID] = stored
	return nil
}

func (r memoryServices) Update(_ context.Context, service *domain.Service) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	current, ok := r.m.services[service.ID]
	if !ok {
		return ErrNotFound
	}
	service.ProviderID = current.ProviderID
	service.CreatedAt = current.CreatedAt
	service.UpdatedAt = r.m.now()
	stored := cloneService(*service)
	stored.Provider = nil
	r.m.services[service.ID] = stored
	return nil
}

func (r memoryServices) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.services[id]; !ok {
		return ErrNotFound
	}
	delete(r.m.services, id)
	return nil
}

func (r memoryServices) GetByID(_ context.Context, id string) (*domain.Service, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	s, ok := r.m.services[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := r.m.populateService(s)
	return &out, nil
}

func (r memoryServices) List(_ context.Context, q query.ListQuery) ([]domain.Service, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	matched := make([]domain.Service, 0, len(r.m.services))
	for _, s := range r.m.services {
		ok, err := matchesAll(s, q.Conditions)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, s)
		}
	}

	var sortErr error
	sort.SliceStable(matched, func(i, j int) bool {
		for _, order := range q.Sort {
			a, errA := serviceField(matched[i], order.Field)
			b, errB := serviceField(matched[j], order.Field)
			if errA != nil || errB != nil {
				sortErr = fmt.Errorf("unmapped sort field %q", order.Field)
				return false
			}
			c := compareNullable(a, b)
			if c == 0 {
				continue
			}
			if order.Desc {
				return c > 0
			}
			return c < 0
		}
		return matched[i].ID < matched[j].ID
	})
	if sortErr != nil {
		return nil, sortErr
	}

	if q.Skip >= len(matched) {
		return nil, nil
	}
	end := len(matched)
	if q.Limit > 0 && q.Skip+q.Limit < end {
		end = q.Skip + q.Limit
	}
	page := make([]domain.Service, 0, end-q.Skip)
	for _, s := range matched[q.Skip:end] {
		page = append(page, r.m.populateService(s))
	}
	return page, nil
}

type memoryBookings struct{ m *MemoryStore }

func (r memoryBookings) Create(_ context.Context, booking *domain.Booking) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, exists := r.m.bookings[booking.ID]; exists {
		return ErrDuplicate
	}
	if r.m.slotTaken(*booking) {
		return ErrDuplicate
	}
	now := r.m.now()
	booking.CreatedAt, booking.UpdatedAt = now, now
	stored := *booking
	stored.Service, stored.User, stored.Provider = nil, nil, nil
	r.m.bookings[booking.ID] = stored
	return nil
}

func (r memoryBookings) Update(_ context.Context, booking *domain.Booking) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	current, ok := r.m.bookings[booking.ID]
	if !ok {
		return ErrNotFound
	}
	current.Status = booking.Status
	current.Date = booking.Date
	current.Time = booking.Time
	current.Notes = booking.Notes
	if r.m.slotTaken(current) {
		return ErrDuplicate
	}
	current.UpdatedAt = r.m.now()
	r.m.bookings[booking.ID] = current
	booking.UpdatedAt = current.UpdatedAt
	return nil
}

func (r memoryBookings) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.bookings[id]; !ok {
		return ErrNotFound
	}
	delete(r.m.bookings, id)
	return nil
}

func (r memoryBookings) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	b, ok := r.m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := r.m.populateBooking(b)
	return &out, nil
}

func (r memoryBookings) List(_ context.Context, scope domain.BookingScope) ([]domain.Booking, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := make([]domain.Booking, 0)
	for _, b := range r.m.bookings {
		if scope.UserID != "" && b.UserID != scope.UserID {
			continue
		}
		if scope.ProviderID != "" && b.ProviderID != scope.ProviderID {
			continue
		}
		out = append(out, r.m.populateBooking(b))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// slotTaken reports whether another active booking holds b's service, date and time.
// Callers hold the write lock.
func (m *MemoryStore) slotTaken(b domain.Booking) bool {
	if !b.Status.Active() {
		return false
	}
	for id, other := range m.bookings {
		if id == b.ID || !other.Status.Active() {
			continue
		}
		if other.ServiceID == b.ServiceID && other.Date.Equal(b.Date) && other.Time == b.Time {
			return true
		}
	}
	return false
}

func (m *MemoryStore) populateService(s domain.Service) domain.Service {
	out := cloneService(s)
	if u, ok := m.users[s.ProviderID]; ok {
		out.Provider = &domain.UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return out
}

func (m *MemoryStore) populateBooking(b domain.Booking) domain.Booking {
	if s, ok := m.services[b.ServiceID]; ok {
		b.Service = &domain.ServiceRef{ID: s.ID, Title: s.Title, Description: s.Description, Price: s.Price}
	}
	if u, ok := m.users[b.UserID]; ok {
		b.User = &domain.UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	if u, ok := m.users[b.ProviderID]; ok {
		b.Provider = &domain.UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return b
}

func cloneService(s domain.Service) domain.Service {
	s.Availability.Days = slices.Clone(s.Availability.Days)
	if s.Image != nil {
		img := *s.Image
		s.Image = &img
	}
	if s.Rating != nil {
		rating := *s.Rating
		s.Rating = &rating
	}
	return s
}

// serviceField returns the comparable value of a schema field; nil means SQL NULL.
func serviceField(s domain.Service, name string) (any, error) {
	switch name {
	case "id":
		return s.ID, nil
	case "title":
		return s.Title, nil
	case "description":
		return s.Description, nil
	case "category":
		return string(s.Category), nil
	case "price":
		return s.Price, nil
	case "duration":
		return s.Duration, nil
	case "rating":
		if s.Rating == nil {
			return nil, nil
		}
		return *s.Rating, nil
	case "provider":
		return s.ProviderID, nil
	case "image":
		if s.Image == nil {
			return nil, nil
		}
		return *s.Image, nil
	case "createdAt":
		return s.CreatedAt, nil
	case "updatedAt":
		return s.UpdatedAt, nil
	}
	return nil, fmt.Errorf("unmapped field %q", name)
}

func matchesAll(s domain.Service, conds []query.Condition) (bool, error) {
	for _, cond := range conds {
		v, err := serviceField(s, cond.Field)
		if err != nil {
			return false, err
		}
		if v == nil {
			return false, nil
		}
		if !matches(v, cond) {
			return false, nil
		}
	}
	return true, nil
}

func matches(v any, cond query.Condition) bool {
	if cond.Op == query.OpIn {
		values, _ := cond.Value.([]any)
		for _, candidate := range values {
			if c, ok := compare(v, candidate); ok && c == 0 {
				return true
			}
		}
		return false
	}
	c, ok := compare(v, cond.Value)
	if !ok {
		return false
	}
	switch cond.Op {
	case query.OpEq:
		return c == 0
	case query.OpGt:
		return c > 0
	case query.OpGte:
		return c >= 0
	case query.OpLt:
		return c < 0
	case query.OpLte:
		return c <= 0
	}
	return false
}

// compare orders two values of the same kind. Integers compare against floats numerically.
func compare(a, b any) (int, bool) {
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	case float64:
		y, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		return compareFloat(x, y), true
	case int:
		y, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		return compareFloat(float64(x), y), true
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return x.Compare(y), true
	}
	return 0, false
}

// compareNullable sorts NULLs last in ascending order, as Postgres does.
func compareNullable(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	c, _ := compare(a, b)
	return c
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func compareFloat(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}
