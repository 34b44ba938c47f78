package auth

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/booking-service/internal/domain"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

const identityKey = "auth_identity"

// AuthMiddleware validates the session cookie and stores the caller identity.
type AuthMiddleware struct {
	tokens      *TokenManager
	revocations RevocationStore
}

// NewAuthMiddleware constructs middleware. A nil store disables revocation checks.
func NewAuthMiddleware(tokens *TokenManager, revocations RevocationStore) *AuthMiddleware {
	if revocations == nil {
		revocations = NoopRevocations{}
	}
	return &AuthMiddleware{tokens: tokens, revocations: revocations}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	raw := c.Cookies(SessionCookieName)
	if raw == "" {
		return apperrors.NewUnauthorized("User unauthorized")
	}

	claims, err := m.tokens.ParseToken(raw)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return apperrors.NewUnauthorized("Token expired")
		}
		return apperrors.NewUnauthorized("Invalid token")
	}

	revoked, err := m.revocations.IsRevoked(c.UserContext(), claims.ID)
	if err != nil {
		return apperrors.NewInternalError(fmt.Errorf("check token revocation: %w", err))
	}
	if revoked {
		return apperrors.NewUnauthorized("Session revoked")
	}

	c.Locals(identityKey, claims.Identity())
	return c.Next()
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	identity, ok := c.Locals(identityKey).(domain.Identity)
	return identity, ok
}
