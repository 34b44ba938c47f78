package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("PORT", "")
	t.Setenv("AUTH_TOKEN_EXPIRY_DAYS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Port != "5000" {
		t.Fatalf("default port = %q", cfg.App.Port)
	}
	if cfg.Auth.JWTSecret == "" {
		t.Fatal("development should fall back to a dev secret")
	}
	if got := cfg.Auth.TokenTTL(); got != 7*24*time.Hour {
		t.Fatalf("token ttl = %v", got)
	}
	if !cfg.Auth.Cookie.HTTPOnly {
		t.Fatal("cookie should be http-only by default")
	}
}

func TestLoadRequiresSecretOutsideDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing secret")
	}
}

func TestTokenExpiryDays(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("AUTH_TOKEN_EXPIRY_DAYS", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := cfg.Auth.TokenTTL(); got != 48*time.Hour {
		t.Fatalf("token ttl = %v", got)
	}

	t.Setenv("AUTH_TOKEN_EXPIRY_DAYS", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-positive expiry")
	}
}

func TestRequestTimeout(t *testing.T) {
	if (AppConfig{}).RequestTimeout() != 0 {
		t.Fatal("zero seconds should disable the timeout")
	}
	if (AppConfig{RequestTimeoutSeconds: 3}).RequestTimeout() != 3*time.Second {
		t.Fatal("unexpected timeout")
	}
}
