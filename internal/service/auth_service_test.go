package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/booking-service/internal/domain"
	"github.com/spec-kit/booking-service/internal/repository"
	apperrors "github.com/spec-kit/booking-service/pkg/util"
)

func TestSignupValidation(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name string
		in   SignupInput
		want string
	}{
		{"missing name", SignupInput{Email: "a@example.com", Password: "secret123"}, msgSignupRequired},
		{"missing password", SignupInput{Name: "A", Email: "a@example.com"}, msgSignupRequired},
		{"blank email", SignupInput{Name: "A", Email: "   ", Password: "secret123"}, msgSignupRequired},
		{"bad email", SignupInput{Name: "A", Email: "not-an-email", Password: "secret123"}, msgInvalidEmail},
		{"short password", SignupInput{Name: "A", Email: "a@example.com", Password: "12345"}, "Password must be at least 6 characters."},
		{"admin role", SignupInput{Name: "A", Email: "a@example.com", Password: "secret123", Role: "admin"}, "Role must be either user or provider."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.auth.Signup(context.Background(), tc.in)
			expectCode(t, err, apperrors.CodeValidation, tc.want)
			if _, err := f.store.Users().GetByEmail(context.Background(), "a@example.com"); !errors.Is(err, repository.ErrNotFound) {
				t.Fatalf("rejected signup reached the store: %v", err)
			}
		})
	}
}

func TestSignupCreatesUserAndSession(t *testing.T) {
	f := newFixture(t)
	session, err := f.auth.Signup(context.Background(), SignupInput{
		Name: "Ana", Email: " Ana@Example.com ", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if session.User.Role != domain.RoleUser {
		t.Fatalf("default role = %s", session.User.Role)
	}
	if session.User.Email != "ana@example.com" {
		t.Fatalf("email not normalized: %q", session.User.Email)
	}
	if session.User.PasswordHash == "secret123" || session.User.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
	if d := time.Until(session.ExpiresAt); d < 6*24*time.Hour {
		t.Fatalf("session expires too soon: %v", d)
	}

	claims, err := f.auth.TokenManager().ParseToken(session.Token)
	if err != nil {
		t.Fatalf("token should verify: %v", err)
	}
	if claims.UserID != session.User.ID || claims.Role != domain.RoleUser {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first, err := f.auth.Signup(ctx, SignupInput{Name: "Ana", Email: "ana@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	_, err = f.auth.Signup(ctx, SignupInput{Name: "Other", Email: "ANA@example.com", Password: "different1"})
	expectCode(t, err, apperrors.CodeConflict, msgEmailInUse)

	stored, err := f.store.Users().GetByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if stored.ID != first.User.ID || stored.Name != "Ana" {
		t.Fatalf("existing account changed: %+v", stored)
	}
}

func TestSignupProviderRole(t *testing.T) {
	f := newFixture(t)
	id := f.account(t, "pro", domain.RoleProvider)
	if id.Role != domain.RoleProvider {
		t.Fatalf("role = %s", id.Role)
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.account(t, "ana", domain.RoleUser)

	if _, err := f.auth.Login(ctx, "ana@example.com", "secret123"); err != nil {
		t.Fatalf("login: %v", err)
	}

	cases := []struct {
		name, email, password, code, msg string
	}{
		{"missing password", "ana@example.com", "", apperrors.CodeValidation, msgLoginRequired},
		{"bad email", "ana", "secret123", apperrors.CodeValidation, msgInvalidEmail},
		{"unknown user", "bob@example.com", "secret123", apperrors.CodeUnauthorized, msgInvalidCredentials},
		{"wrong password", "ana@example.com", "secret124", apperrors.CodeUnauthorized, msgInvalidCredentials},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.auth.Login(ctx, tc.email, tc.password)
			expectCode(t, err, tc.code, tc.msg)
		})
	}
}

type memoryRevocations struct {
	revoked map[string]time.Duration
	err     error
}

func (m *memoryRevocations) Revoke(_ context.Context, id string, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.revoked[id] = ttl
	return nil
}

func (m *memoryRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	_, ok := m.revoked[id]
	return ok, m.err
}

func TestLogoutRevokesSession(t *testing.T) {
	f := newFixture(t)
	revocations := &memoryRevocations{revoked: map[string]time.Duration{}}
	svc := NewAuthService(testAuthConfig, AuthDependencies{UserRepo: f.store.Users(), Revocations: revocations})
	ctx := context.Background()

	session, err := svc.Signup(ctx, SignupInput{Name: "Ana", Email: "ana@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := svc.Logout(ctx, session.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	claims, _ := svc.TokenManager().ParseToken(session.Token)
	ttl, ok := revocations.revoked[claims.ID]
	if !ok {
		t.Fatal("token id not revoked")
	}
	if ttl <= 0 || ttl > 7*24*time.Hour {
		t.Fatalf("ttl = %v", ttl)
	}

	if err := svc.Logout(ctx, ""); err != nil {
		t.Fatalf("logout without token: %v", err)
	}
	if err := svc.Logout(ctx, "garbage"); err != nil {
		t.Fatalf("logout with bad token: %v", err)
	}

	revocations.err = errors.New("redis down")
	expectCode(t, svc.Logout(ctx, session.Token), apperrors.CodeInternal, "")
}

func TestProfile(t *testing.T) {
	f := newFixture(t)
	id := f.account(t, "ana", domain.RoleUser)
	user, err := f.auth.Profile(context.Background(), id)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if user.Name != "ana" {
		t.Fatalf("user = %+v", user)
	}
	_, err = f.auth.Profile(context.Background(), domain.Identity{UserID: "gone"})
	expectCode(t, err, apperrors.CodeNotFound, "User not found")
}

func TestCreateAdmin(t *testing.T) {
	f := newFixture(t)
	id := f.account(t, "root", domain.RoleAdmin)
	if !id.IsAdmin() {
		t.Fatalf("role = %s", id.Role)
	}
	_, err := f.auth.CreateAdmin(context.Background(), "root", "root@example.com", "secret123")
	expectCode(t, err, apperrors.CodeConflict, msgEmailInUse)
}
