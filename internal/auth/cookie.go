package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/booking-service/internal/config"
)

// SessionCookieName carries the session token.
const SessionCookieName = "token"

// SessionCookies writes and clears the session cookie.
type SessionCookies struct {
	cfg config.CookieConfig
	ttl time.Duration
}

// NewSessionCookies returns a writer whose max-age matches the token lifetime.
func NewSessionCookies(cfg config.CookieConfig, ttl time.Duration) SessionCookies {
	return SessionCookies{cfg: cfg, ttl: ttl}
}

// Set attaches the session token to the response.
func (s SessionCookies) Set(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl / time.Second),
		Expires:  expiresAt,
		HTTPOnly: s.cfg.HTTPOnly,
		Secure:   s.cfg.Secure,
		SameSite: s.cfg.SameSite,
	})
}

// Clear expires the session cookie on the client.
func (s SessionCookies) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: s.cfg.HTTPOnly,
		Secure:   s.cfg.Secure,
		SameSite: s.cfg.SameSite,
	})
}
