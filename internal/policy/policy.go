// Package policy holds the access rules for services and bookings.
//
// Every rule lives in a single table keyed by (resource kind, action) and is
// evaluated the same way by every caller. Keys missing from the table deny.
package policy

import (
	"github.com/spec-kit/booking-service/internal/domain"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

// Kind identifies the resource type a rule applies to.
type Kind string

const (
	KindService Kind = "service"
	KindBooking Kind = "booking"
)

// Action identifies the operation being attempted.
type Action string

const (
	ActionCreate       Action = "create"
	ActionRead         Action = "read"
	ActionUpdate       Action = "update"
	ActionUpdateStatus Action = "update_status"
	ActionDelete       Action = "delete"
)

// Resource carries the ownership facts a rule inspects.
type Resource struct {
	Kind       Kind
	ProviderID string
	UserID     string
}

// ForService describes a service for evaluation. A nil service describes one not yet created.
func ForService(s *domain.Service) Resource {
	r := Resource{Kind: KindService}
	if s != nil {
		r.ProviderID = s.ProviderID
	}
	return r
}

// ForBooking describes a booking for evaluation.
func ForBooking(b *domain.Booking) Resource {
	r := Resource{Kind: KindBooking}
	if b != nil {
		r.ProviderID = b.ProviderID
		r.UserID = b.UserID
	}
	return r
}

type key struct {
	kind   Kind
	action Action
}

type rule struct {
	allow   func(domain.Identity, Resource) bool
	message string
}

var table = map[key]rule{
	{KindService, ActionCreate}: {
		allow:   hasRole(domain.RoleProvider, domain.RoleAdmin),
		message: "Access denied",
	},
	{KindService, ActionUpdate}: {
		allow:   all(hasRole(domain.RoleProvider, domain.RoleAdmin), anyOf(isProvider, isAdmin)),
		message: "Not authorized to update this service",
	},
	{KindService, ActionDelete}: {
		allow:   all(hasRole(domain.RoleProvider, domain.RoleAdmin), anyOf(isProvider, isAdmin)),
		message: "Not authorized to delete this service",
	},
	{KindBooking, ActionCreate}: {
		allow:   authenticated,
		message: "Access denied",
	},
	// Admins are not granted single-booking reads.
	{KindBooking, ActionRead}: {
		allow:   anyOf(isRequester, isProvider),
		message: "Unauthorized access",
	},
	{KindBooking, ActionUpdate}: {
		allow:   anyOf(isRequester, isProvider, isAdmin),
		message: "Unauthorized access",
	},
	{KindBooking, ActionUpdateStatus}: {
		allow:   anyOf(isProvider, isAdmin),
		message: "Unauthorized access",
	},
	// Providers cannot delete bookings made against their services.
	{KindBooking, ActionDelete}: {
		allow:   anyOf(isRequester, isAdmin),
		message: "Unauthorized access",
	},
}

// Allowed reports whether identity may perform action on resource.
func Allowed(identity domain.Identity, action Action, resource Resource) bool {
	r, ok := table[key{resource.Kind, action}]
	if !ok {
		return false
	}
	return r.allow(identity, resource)
}

// Authorize returns a Forbidden error when the action is not allowed.
func Authorize(identity domain.Identity, action Action, resource Resource) error {
	r, ok := table[key{resource.Kind, action}]
	if !ok {
		return apperrors.NewForbidden("Access denied")
	}
	if !r.allow(identity, resource) {
		return apperrors.NewForbidden(r.message)
	}
	return nil
}

// BookingScope returns the listing filter for identity: users see bookings they made,
// providers see bookings made against them, admins see everything.
func BookingScope(identity domain.Identity) domain.BookingScope {
	switch identity.Role {
	case domain.RoleAdmin:
		return domain.BookingScope{}
	case domain.RoleProvider:
		return domain.BookingScope{ProviderID: identity.UserID}
	default:
		return domain.BookingScope{UserID: identity.UserID}
	}
}

type predicate func(domain.Identity, Resource) bool

func authenticated(id domain.Identity, _ Resource) bool {
	return id.UserID != ""
}

func isAdmin(id domain.Identity, _ Resource) bool {
	return id.Role == domain.RoleAdmin
}

func isProvider(id domain.Identity, r Resource) bool {
	return id.UserID != "" && id.UserID == r.ProviderID
}

func isRequester(id domain.Identity, r Resource) bool {
	return id.UserID != "" && id.UserID == r.UserID
}

func hasRole(roles ...domain.Role) predicate {
	return func(id domain.Identity, _ Resource) bool {
		for _, role := range roles {
			if id.Role == role {
				return true
			}
		}
		return false
	}
}

func anyOf(preds ...predicate) predicate {
	return func(id domain.Identity, r Resource) bool {
		for _, p := range preds {
			if p(id, r) {
				return true
			}
		}
		return false
	}
}

func all(preds ...predicate) predicate {
	return func(id domain.Identity, r Resource) bool {
		for _, p := range preds {
			if !p(id, r) {
				return false
			}
		}
		return true
	}
}
