package service

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/spec-kit/booking-service/internal/domain"
	"github.com/spec-kit/booking-service/internal/events"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

func ptr[T any](v T) *T { return &v }

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture(t)
	provider := f.account(t, "pro", domain.RoleProvider)
	user := f.account(t, "ana", domain.RoleUser)
	s := f.service(t, provider)

	cases := []struct {
		name string
		in   BookingCreateInput
		code string
		want string
	}{
		{"no service", BookingCreateInput{Date: "2030-03-04", Time: "10:00"}, apperrors.CodeValidation, "Service is required"},
		{"bad service id", BookingCreateInput{ServiceID: "abc", Date: "2030-03-04", Time: "10:00"}, apperrors.CodeValidation, "Invalid service ID"},
		{"no date", BookingCreateInput{ServiceID: s.ID, Time: "10:00"}, apperrors.CodeValidation, "Date is required"},
		{"bad date", BookingCreateInput{ServiceID: s.ID, Date: "someday", Time: "10:00"}, apperrors.CodeValidation, "Invalid date format"},
		{"no time", BookingCreateInput{ServiceID: s.ID, Date: "2030-03-04"}, apperrors.CodeValidation, "Time is required"},
		{"missing service", BookingCreateInput{ServiceID: "7c9e6679-7425-40de-944b-e07fc1f90ae7", Date: "2030-03-04", Time: "10:00"}, apperrors.CodeNotFound, "Service not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.bookings.Create(context.Background(), user, tc.in)
			expectCode(t, err, tc.code, tc.want)
		})
	}
}

func TestCreateBookingCopiesServiceTerms(t *testing.T) {
	f := newFixture(t)
	provider := f.account(t, "pro", domain.RoleProvider)
	user := f.account(t, "ana", domain.RoleUser)
	s := f.service(t, provider)

	b := f.booking(t, user, s.ID, "2030-03-04T15:00:00Z", "10:00")
	if b.UserID != user.UserID || b.ProviderID != provider.UserID {
		t.Fatalf("parties = %s / %s", b.UserID, b.ProviderID)
	}
	if b.TotalPrice != s.Price || b.Status != domain.BookingStatusPending {
		t.Fatalf("booking = %+v", b)
	}
	if !b.Date.Equal(time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date = %v", b.Date)
	}
	if b.Service == nil || b.Service.Title != s.Title || b.User == nil || b.Provider == nil {
		t.Fatalf("not populated: %+v", b)
	}
	if got := f.events.types(); !slices.Contains(got, events.EventBookingCreated) {
		t.Fatalf("events = %v", got)
	}
}

func TestDoubleBookingRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	provider := f.account(t, "pro", domain.RoleProvider)
	ana := f.account(t, "ana", domain.RoleUser)
	bob := f.account(t, "bob", domain.RoleUser)
	s := f.service(t, provider)

	first := f.booking(t, ana, s.ID, "2030-03-04", "10:00")
	_, err := f.bookings.Create(ctx, bob, BookingCreateInput{ServiceID: s.ID, Date: "2030-03-04", Time: "10:00"})
	expectCode(t, err, apperrors.CodeConflict, msgSlotTaken)

	f.booking(t, bob, s.ID, "2030-03-04", "11:00")

	if _, err := f.bookings.Update(ctx, provider, first.ID, BookingUpdateInput{Status: ptr("cancelled")}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	f.booking(t, bob, s.ID, "2030-03-04", "10:00")
}

func TestListBookingsScopedByRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p1 := f.account(t, "p1", domain.RoleProvider)
	p2 := f.account(t, "p2", domain.RoleProvider)
	ana := f.account(t, "ana", domain.RoleUser)
	bob := f.account(t, "bob", domain.RoleUser)
	admin := f.account(t, "root", domain.RoleAdmin)
	s1 := f.service(t, p1)
	s2 := f.service(t, p2)

	f.booking(t, ana, s1.ID, "2030-03-04", "10:00")
	f.booking(t, ana, s2.ID, "2030-03-04", "10:00")
	f.booking(t, bob, s1.ID, "2030-03-05", "10:00")

	cases := []struct {
		who  domain.Identity
		want int
	}{
		{ana, 2},
		{bob, 1},
		{p1, 2},
		{p2, 1},
		{admin, 3},
	}
	for _, tc := range cases {
		got, err := f.bookings.List(ctx, tc.who)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != tc.want {
			t.Fatalf("%s sees %d bookings, want %d", tc.who.Email, len(got), tc.want)
		}
		for _, b := range got {
			switch tc.who.Role {
			case domain.RoleUser:
				if b.UserID != tc.who.UserID {
					t.Fatalf("user sees foreign booking %s", b.ID)
				}
			case domain.RoleProvider:
				if b.ProviderID != tc.who.UserID {
					t.Fatalf("provider sees foreign booking %s", b.ID)
				}
			}
		}
	}
}

func TestGetBookingAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	provider := f.account(t, "pro", domain.RoleProvider)
	ana := f.account(t, "ana", domain.RoleUser)
	bob := f.account(t, "bob", domain.RoleUser)
	admin := f.account(t, "root", domain.RoleAdmin)
	b := f.booking(t, ana, f.service(t, provider).ID, "2030-03-04", "10:00")

	for _, who := range []domain.Identity{ana, provider} {
		if _, err := f.bookings.Get(ctx, who, b.ID); err != nil {
			t.Fatalf("%s: %v", who.Email, err)
		}
	}
	for _, who := range []domain.Identity{bob, admin} {
		_, err := f.bookings.Get(ctx, who, b.ID)
		expectCode(t, err, apperrors.CodeForbidden, "Unauthorized access")
	}
	_, err := f.bookings.Get(ctx, ana, "7c9e6679-7425-40de-944b-e07fc1f90ae7")
	expectCode(t, err, apperrors.CodeNotFound, "Booking not found")
	_, err = f.bookings.Get(ctx, ana, "bogus")
	expectCode(t, err, apperrors.CodeNotFound, "Booking not found")
}

func TestUpdateBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	provider := f.account(t, "pro", domain.RoleProvider)
	ana := f.account(t, "ana", domain.RoleUser)
	bob := f.account(t, "bob", domain.RoleUser)
	admin := f.account(t, "root", domain.RoleAdmin)
	b := f.booking(t, ana, f.service(t, provider).ID, "2030-03-04", "10:00")

	_, err := f.bookings.Update(ctx, bob, b.ID, BookingUpdateInput{Notes: ptr("hi")})
	expectCode(t, err, apperrors.CodeForbidden, "Unauthorized access")

	_, err = f.bookings.Update(ctx, ana, b.ID, BookingUpdateInput{Status: ptr("confirmed")})
	expectCode(t, err, apperrors.CodeForbidden, "Unauthorized access")

	updated, err := f.bookings.Update(ctx, ana, b.ID, BookingUpdateInput{Notes: ptr("ring twice"), Time: ptr("11:00")})
	if err != nil {
		t.Fatalf("requester update: %v", err)
	}
	if updated.Notes != "ring twice" || updated.Time != "11:00" || updated.Status != domain.BookingStatusPending {
		t.Fatalf("updated = %+v", updated)
	}

	_, err = f.bookings.Update(ctx, provider, b.ID, BookingUpdateInput{Status: ptr("archived")})
	expectCode(t, err, apperrors.CodeValidation, "Invalid booking status")

	_, err = f.bookings.Update(ctx, provider, b.ID, BookingUpdateInput{Date: ptr("nope")})
	expectCode(t, err, apperrors.CodeValidation, "Invalid date format")

	confirmed, err := f.bookings.Update(ctx, provider, b.ID, BookingUpdateInput{Status: ptr("confirmed")})
	if err != nil || confirmed.Status != domain.BookingStatusConfirmed {
		t.Fatalf("provider confirm: %v %+v", err, confirmed)
	}
	completed, err := f.bookings.Update(ctx, admin, b.ID, BookingUpdateInput{Status: ptr("completed")})
	if err != nil || completed.Status != domain.BookingStatusCompleted {
		t.Fatalf("admin complete: %v %+v", err, completed)
	}
	if completed.TotalPrice != b.TotalPrice || completed.UserID != ana.UserID {
		t.Fatal("immutable fields changed")
	}

	var changes int
	for _, et := range f.events.types() {
		if et == events.EventBookingStatusChanged {
			changes++
		}
	}
	if changes != 2 {
		t.Fatalf("status change events = %d", changes)
	}
}

func TestDeleteBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	provider := f.account(t, "pro", domain.RoleProvider)
	ana := f.account(t, "ana", domain.RoleUser)
	admin := f.account(t, "root", domain.RoleAdmin)
	s := f.service(t, provider)
	b1 := f.booking(t, ana, s.ID, "2030-03-04", "10:00")
	b2 := f.booking(t, ana, s.ID, "2030-03-04", "11:00")

	expectCode(t, f.bookings.Delete(ctx, provider, b1.ID), apperrors.CodeForbidden, "Unauthorized access")
	if err := f.bookings.Delete(ctx, ana, b1.ID); err != nil {
		t.Fatalf("requester delete: %v", err)
	}
	if err := f.bookings.Delete(ctx, admin, b2.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	expectCode(t, f.bookings.Delete(ctx, ana, b1.ID), apperrors.CodeNotFound, "Booking not found")
}
