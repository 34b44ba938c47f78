package service

import (
	"context"
	"slices"
	"testing"

	"github.com/spec-kit/booking-service/internal/domain"
	"github.com/spec-kit/booking-service/internal/events"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

func TestServiceInputValidation(t *testing.T) {
	f := newFixture(t)
	provider := f.account(t, "pro", domain.RoleProvider)

	neg := -1.0
	zero := 0
	cases := []struct {
		name   string
		mutate func(*ServiceInput)
		want   string
	}{
		{"blank title", func(in *ServiceInput) { in.Title = "  " }, "Title is required"},
		{"no description", func(in *ServiceInput) { in.Description = "" }, "Description is required"},
		{"no category", func(in *ServiceInput) { in.Category = "" }, "Category is required"},
		{"unknown category", func(in *ServiceInput) { in.Category = "space" }, "Invalid category"},
		{"no price", func(in *ServiceInput) { in.Price = nil }, "Price must be a positive number"},
		{"negative price", func(in *ServiceInput) { in.Price = &neg }, "Price must be a positive number"},
		{"zero duration", func(in *ServiceInput) { in.Duration = &zero }, "Duration must be a positive number"},
		{"no availability", func(in *ServiceInput) { in.Availability = nil }, "Availability is required"},
		{"no days", func(in *ServiceInput) { in.Availability.Days = nil }, "Days are required"},
		{"empty days", func(in *ServiceInput) { in.Availability.Days = []string{} }, "Days are required"},
		{"no start", func(in *ServiceInput) { in.Availability.StartTime = "" }, "Start time is required"},
		{"no end", func(in *ServiceInput) { in.Availability.EndTime = "" }, "End time is required"},
		{"end before start", func(in *ServiceInput) { in.Availability.EndTime = "08:00" }, msgEndBeforeStart},
		{"end equals start", func(in *ServiceInput) { in.Availability.EndTime = "09:00" }, msgEndBeforeStart},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validServiceInput()
			tc.mutate(&in)
			_, err := f.catalog.Create(context.Background(), provider, in)
			expectCode(t, err, apperrors.CodeValidation, tc.want)
		})
	}
}

func TestCreateServiceOwnership(t *testing.T) {
	f := newFixture(t)
	provider := f.account(t, "pro", domain.RoleProvider)
	user := f.account(t, "ana", domain.RoleUser)

	_, err := f.catalog.Create(context.Background(), user, validServiceInput())
	expectCode(t, err, apperrors.CodeForbidden, "Access denied")

	s := f.service(t, provider)
	if s.ProviderID != provider.UserID {
		t.Fatalf("provider = %s", s.ProviderID)
	}
	if s.Provider == nil || s.Provider.Name != "pro" || s.Provider.Email != "pro@example.com" {
		t.Fatalf("provider not populated: %+v", s.Provider)
	}
	if got := f.events.types(); !slices.Equal(got, []events.EventType{events.EventServiceCreated}) {
		t.Fatalf("events = %v", got)
	}
}

func TestGetService(t *testing.T) {
	f := newFixture(t)
	provider := f.account(t, "pro", domain.RoleProvider)
	s := f.service(t, provider)

	got, err := f.catalog.Get(context.Background(), s.ID)
	if err != nil || got.ID != s.ID {
		t.Fatalf("get: %v %+v", err, got)
	}
	_, err = f.catalog.Get(context.Background(), "not-a-uuid")
	expectCode(t, err, apperrors.CodeValidation, msgInvalidServiceID)
	_, err = f.catalog.Get(context.Background(), "7c9e6679-7425-40de-944b-e07fc1f90ae7")
	expectCode(t, err, apperrors.CodeNotFound, "Service not found")
}

func TestUpdateService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.account(t, "owner", domain.RoleProvider)
	other := f.account(t, "other", domain.RoleProvider)
	admin := f.account(t, "root", domain.RoleAdmin)
	s := f.service(t, owner)

	in := validServiceInput()
	in.Title = "Window cleaning"

	_, err := f.catalog.Update(ctx, other, s.ID, in)
	expectCode(t, err, apperrors.CodeForbidden, "Not authorized to update this service")

	_, err = f.catalog.Update(ctx, owner, "7c9e6679-7425-40de-944b-e07fc1f90ae7", in)
	expectCode(t, err, apperrors.CodeNotFound, "Service not found")

	bad := validServiceInput()
	bad.Title = ""
	_, err = f.catalog.Update(ctx, other, s.ID, bad)
	expectCode(t, err, apperrors.CodeValidation, "Title is required")

	updated, err := f.catalog.Update(ctx, admin, s.ID, in)
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if updated.Title != "Window cleaning" {
		t.Fatalf("title = %q", updated.Title)
	}
	if updated.ProviderID != owner.UserID {
		t.Fatalf("admin edit transferred ownership to %s", updated.ProviderID)
	}
}

func TestDeleteService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.account(t, "owner", domain.RoleProvider)
	other := f.account(t, "other", domain.RoleProvider)
	user := f.account(t, "ana", domain.RoleUser)
	s := f.service(t, owner)
	b := f.booking(t, user, s.ID, "2030-03-04", "10:00")

	expectCode(t, f.catalog.Delete(ctx, other, s.ID), apperrors.CodeForbidden, "Not authorized to delete this service")
	if err := f.catalog.Delete(ctx, owner, s.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	expectCode(t, f.catalog.Delete(ctx, owner, s.ID), apperrors.CodeNotFound, "Service not found")

	kept, err := f.bookings.Get(ctx, user, b.ID)
	if err != nil {
		t.Fatalf("booking should survive: %v", err)
	}
	if kept.Service != nil {
		t.Fatal("deleted service should not populate")
	}
	if got := f.events.types(); !slices.Contains(got, events.EventServiceDeleted) {
		t.Fatalf("events = %v", got)
	}
}

func TestListServices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	provider := f.account(t, "pro", domain.RoleProvider)
	for _, price := range []float64{10, 30, 70} {
		in := validServiceInput()
		in.Price = &price
		if _, err := f.catalog.Create(ctx, provider, in); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	services, q, err := f.catalog.List(ctx, map[string]string{"price[gte]": "20", "sort": "-price", "limit": "1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(services) != 1 || services[0].Price != 70 {
		t.Fatalf("services = %+v", services)
	}
	if p := q.Paginate(len(services)); p.Next == nil || p.Next.Page != 2 || p.Prev != nil {
		t.Fatalf("pagination = %+v", p)
	}
	if services[0].Provider == nil {
		t.Fatal("provider not populated")
	}

	_, _, err = f.catalog.List(ctx, map[string]string{"password": "x"})
	expectCode(t, err, apperrors.CodeValidation, "")
}
