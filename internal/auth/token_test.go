package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/cafe-admin-service/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:       "9f1c2c1e-7a54-4a6f-9f5e-0a1b2c3d4e5f",
		Email:    "nadia@example.com",
		Username: "nadia",
		Role:     domain.RoleAdmin,
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	user := testUser()

	token, expiresAt, err := tm.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}
	if remaining := time.Until(expiresAt); remaining < 59*time.Minute || remaining > time.Hour {
		t.Fatalf("unexpected expiry distance: %v", remaining)
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID() != user.ID {
		t.Fatalf("subject = %q, want %q", claims.UserID(), user.ID)
	}
	if claims.Username != user.Username {
		t.Fatalf("username = %q, want %q", claims.Username, user.Username)
	}
	if claims.Role != user.Role {
		t.Fatalf("role = %q, want %q", claims.Role, user.Role)
	}
}

func TestParseTokenExpired(t *testing.T) {
	// The constructor clamps non-positive TTLs, so build the expired
	// issuer directly.
	issuer := &TokenManager{secret: []byte("test-secret"), ttl: -time.Minute}
	token, _, err := issuer.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	tm := NewTokenManager("test-secret", time.Hour)
	if _, err := tm.ParseToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	issuer := NewTokenManager("issuer-secret", time.Hour)
	verifier := NewTokenManager("other-secret", time.Hour)

	token, _, err := issuer.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := verifier.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseTokenTampered(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	token, _, err := tm.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	// Flip the last signature byte.
	tampered := token[:len(token)-1]
	if token[len(token)-1] == 'A' {
		tampered += "B"
	} else {
		tampered += "A"
	}

	if _, err := tm.ParseToken(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseTokenGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	for _, raw := range []string{"", "garbage", "a.b.c"} {
		if _, err := tm.ParseToken(raw); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("ParseToken(%q): expected ErrTokenInvalid, got %v", raw, err)
		}
	}
}

func TestNewTokenManagerDefaultTTL(t *testing.T) {
	tm := NewTokenManager("test-secret", 0)
	if tm.TTL() != 24*time.Hour {
		t.Fatalf("TTL = %v, want 24h default", tm.TTL())
	}
}
