package policy

import (
	"testing"

	"github.com/spec-kit/booking-service/internal/domain"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

var (
	requester = domain.Identity{UserID: "u-1", Role: domain.RoleUser}
	owner     = domain.Identity{UserID: "p-1", Role: domain.RoleProvider}
	stranger  = domain.Identity{UserID: "p-2", Role: domain.RoleProvider}
	otherUser = domain.Identity{UserID: "u-2", Role: domain.RoleUser}
	admin     = domain.Identity{UserID: "a-1", Role: domain.RoleAdmin}
)

func TestServiceRules(t *testing.T) {
	svc := ForService(&domain.Service{ID: "s-1", ProviderID: "p-1"})

	cases := []struct {
		name     string
		identity domain.Identity
		action   Action
		want     bool
	}{
		{"user cannot create", requester, ActionCreate, false},
		{"provider can create", owner, ActionCreate, true},
		{"admin can create", admin, ActionCreate, true},
		{"owner updates", owner, ActionUpdate, true},
		{"other provider cannot update", stranger, ActionUpdate, false},
		{"user cannot update", requester, ActionUpdate, false},
		{"admin updates any", admin, ActionUpdate, true},
		{"owner deletes", owner, ActionDelete, true},
		{"other provider cannot delete", stranger, ActionDelete, false},
		{"admin deletes any", admin, ActionDelete, true},
		{"no rule for service status", admin, ActionUpdateStatus, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Allowed(tc.identity, tc.action, svc); got != tc.want {
				t.Fatalf("Allowed = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBookingRules(t *testing.T) {
	booking := ForBooking(&domain.Booking{ID: "b-1", UserID: "u-1", ProviderID: "p-1"})

	cases := []struct {
		name     string
		identity domain.Identity
		action   Action
		want     bool
	}{
		{"anyone authenticated creates", otherUser, ActionCreate, true},
		{"requester reads", requester, ActionRead, true},
		{"provider reads", owner, ActionRead, true},
		{"stranger cannot read", otherUser, ActionRead, false},
		{"admin cannot read single booking", admin, ActionRead, false},
		{"requester updates fields", requester, ActionUpdate, true},
		{"provider updates fields", owner, ActionUpdate, true},
		{"admin updates fields", admin, ActionUpdate, true},
		{"stranger cannot update", stranger, ActionUpdate, false},
		{"requester cannot change status", requester, ActionUpdateStatus, false},
		{"provider changes status", owner, ActionUpdateStatus, true},
		{"admin changes status", admin, ActionUpdateStatus, true},
		{"requester deletes", requester, ActionDelete, true},
		{"admin deletes", admin, ActionDelete, true},
		{"provider cannot delete", owner, ActionDelete, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Allowed(tc.identity, tc.action, booking); got != tc.want {
				t.Fatalf("Allowed = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAuthorizeReturnsForbidden(t *testing.T) {
	svc := ForService(&domain.Service{ProviderID: "p-1"})

	err := Authorize(stranger, ActionUpdate, svc)
	if !apperrors.HasCode(err, apperrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err.Error() != "Not authorized to update this service" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if err := Authorize(owner, ActionUpdate, svc); err != nil {
		t.Fatalf("owner should be allowed: %v", err)
	}
	if err := Authorize(admin, Action("archive"), svc); !apperrors.HasCode(err, apperrors.CodeForbidden) {
		t.Fatal("unknown action should deny")
	}
}

func TestEmptyIdentityNeverOwns(t *testing.T) {
	unowned := ForBooking(&domain.Booking{})
	if Allowed(domain.Identity{}, ActionRead, unowned) {
		t.Fatal("empty identity must not match empty owner ids")
	}
}

func TestBookingScope(t *testing.T) {
	if got := BookingScope(requester); got != (domain.BookingScope{UserID: "u-1"}) {
		t.Fatalf("user scope = %+v", got)
	}
	if got := BookingScope(owner); got != (domain.BookingScope{ProviderID: "p-1"}) {
		t.Fatalf("provider scope = %+v", got)
	}
	if got := BookingScope(admin); got != (domain.BookingScope{}) {
		t.Fatalf("admin scope = %+v", got)
	}
}
