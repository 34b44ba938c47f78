package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/booking-service/internal/api/dto"
	"github.com/spec-kit/booking-service/internal/auth"
	"github.com/spec-kit/booking-service/internal/service"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

// AuthHandler exposes signup, login and session endpoints.
type AuthHandler struct {
	auth    *service.AuthService
	cookies auth.SessionCookies
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookies auth.SessionCookies) *AuthHandler {
	return &AuthHandler{auth: authService, cookies: cookies}
}

// Signup handles POST /api/v1/auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	session, err := h.auth.Signup(c.UserContext(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		ImageURL: req.ImageURL,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	h.cookies.Set(c, session.Token, session.ExpiresAt)
	return c.Status(fiber.StatusCreated).JSON(dto.AuthResponse{
		Message: "User created successfully",
		User:    dto.NewUserResponse(session.User),
	})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	session, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.cookies.Set(c, session.Token, session.ExpiresAt)
	return c.JSON(dto.AuthResponse{
		Message: "User logged in successfully",
		User:    dto.NewUserResponse(session.User),
	})
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.UserContext(), c.Cookies(auth.SessionCookieName)); err != nil {
		return err
	}
	h.cookies.Clear(c)
	return c.JSON(fiber.Map{"message": "User logged out successfully"})
}

// GetUser handles GET /api/v1/auth/getUser.
func (h *AuthHandler) GetUser(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	user, err := h.auth.Profile(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return c.JSON(dto.AuthResponse{
		Message: "User retrieved successfully",
		User:    dto.NewUserResponse(user),
	})
}

// parseBody decodes the JSON body into out.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("Invalid request body", nil)
	}
	return nil
}
