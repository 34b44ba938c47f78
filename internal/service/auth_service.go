package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/booking-service/internal/auth"
	"github.com/spec-kit/booking-service/internal/config"
	"github.com/spec-kit/booking-service/internal/domain"
	"github.com/spec-kit/booking-service/internal/repository"
	"github.com/spec-kit/booking-service/internal/validation"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

// AuthService coordinates registration, login and session revocation.
type AuthService struct {
	users       repository.UserRepository
	tokenMgr    *auth.TokenManager
	revocations auth.RevocationStore
	bcryptCost  int
	logger      *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	Revocations auth.RevocationStore
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	revocations := deps.Revocations
	if revocations == nil {
		revocations = auth.NoopRevocations{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:       deps.UserRepo,
		tokenMgr:    auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL()),
		revocations: revocations,
		bcryptCost:  cfg.BcryptCost,
		logger:      logger,
	}
}

// SignupInput is the registration payload.
type SignupInput struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	ImageURL *string `json:"imageUrl" validate:"omitempty,url"`
	Role     string  `json:"role" validate:"omitempty,oneof=user provider"`
}

var signupMessages = validation.Messages{
	"Name.max":       "Name cannot be more than 100 characters.",
	"Email.email":    "Invalid email address.",
	"Password.min":   "Password must be at least 6 characters.",
	"ImageURL.url":   "Image URL must be a valid URL.",
	"Role.oneof":     "Role must be either user or provider.",
	"Name.required":  msgSignupRequired,
	"Email.required": msgSignupRequired,
}

const (
	msgSignupRequired     = "Name, email and password are all required."
	msgLoginRequired      = "Email and password are required."
	msgInvalidEmail       = "Invalid email address."
	msgInvalidCredentials = "Invalid email or password."
	msgEmailInUse         = "Email already in use."
)

// Session is the outcome of a successful signup or login.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Signup registers a user or provider account and opens a session for it.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Role = strings.TrimSpace(in.Role)
	if in.ImageURL != nil && strings.TrimSpace(*in.ImageURL) == "" {
		in.ImageURL = nil
	}
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, apperrors.NewValidationError(msgSignupRequired, nil)
	}
	if err := validation.Struct(in, signupMessages); err != nil {
		return nil, err
	}

	role := domain.RoleUser
	if in.Role != "" {
		role = domain.Role(in.Role)
	}
	user, err := s.createAccount(ctx, in.Name, in.Email, in.Password, role, in.ImageURL)
	if err != nil {
		return nil, err
	}
	return s.openSession(user)
}

// Login authenticates by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError(msgLoginRequired, nil)
	}
	if !validation.Var(email, "email") {
		return nil, apperrors.NewValidationError(msgInvalidEmail, nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewUnauthorized(msgInvalidCredentials)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized(msgInvalidCredentials)
	}
	return s.openSession(user)
}

// Logout revokes the session behind token. Missing or unverifiable tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return nil
	}
	identity := claims.Identity()
	ttl := time.Until(identity.ExpiresAt)
	if err := s.revocations.Revoke(ctx, identity.TokenID, ttl); err != nil {
		return apperrors.NewInternalError(err)
	}
	s.logger.Debug("session revoked", zap.String("user_id", identity.UserID), zap.String("token_id", identity.TokenID))
	return nil
}

// Profile returns the account behind identity.
func (s *AuthService) Profile(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, identity.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("User", nil)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// CreateAdmin provisions an administrator. It is only reachable from the CLI.
func (s *AuthService) CreateAdmin(ctx context.Context, name, email, password string) (*domain.User, error) {
	in := SignupInput{Name: strings.TrimSpace(name), Email: normalizeEmail(email), Password: password}
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, apperrors.NewValidationError(msgSignupRequired, nil)
	}
	if err := validation.Struct(in, signupMessages); err != nil {
		return nil, err
	}
	return s.createAccount(ctx, in.Name, in.Email, in.Password, domain.RoleAdmin, nil)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) createAccount(ctx context.Context, name, email, password string, role domain.Role, imageURL *string) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict(msgEmailInUse, nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		ImageURL:     imageURL,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict(msgEmailInUse, nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	s.logger.Info("account created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

func (s *AuthService) openSession(user *domain.User) (*Session, error) {
	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{User: user, Token: token, ExpiresAt: exp}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
