package session

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret string, role string, exp time.Time) string {
	t.Helper()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Role: role,
		Name: "Sari",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	return token
}

func TestNewParsesClaimsUnverified(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	token := signToken(t, "backend-secret", "editor", now.Add(time.Hour))

	s, err := New("Bearer "+token, WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("new session failed: %v", err)
	}
	if s.Claims().Subject != "42" || s.Claims().Name != "Sari" || s.Claims().Verified {
		t.Fatalf("unexpected claims: %+v", s.Claims())
	}
	if s.Role() != RoleViewer {
		t.Fatalf("unverified token must stay viewer, got %s", s.Role())
	}
	got, err := s.Token()
	if err != nil || got != token {
		t.Fatalf("unexpected token: %q err=%v", got, err)
	}
}

func TestOpaqueTokenDefaultsToViewer(t *testing.T) {
	s, err := New("opaque-token")
	if err != nil {
		t.Fatalf("new session failed: %v", err)
	}
	if s.Role() != RoleViewer || s.Claims().ExpiresAt != nil {
		t.Fatalf("unexpected claims: %+v", s.Claims())
	}
	if _, err := New("   "); !errors.Is(err, ErrTokenMissing) {
		t.Fatalf("expected ErrTokenMissing, got %v", err)
	}
}

func TestVerifyKeyRejectsForeignSignature(t *testing.T) {
	token := signToken(t, "other", "admin", time.Now().Add(time.Hour))
	if _, err := New(token, WithVerifyKey("backend-secret")); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	token = signToken(t, "backend-secret", "admin", time.Now().Add(time.Hour))
	s, err := New(token, WithVerifyKey("backend-secret"))
	if err != nil || s.Role() != RoleAdmin || !s.Claims().Verified {
		t.Fatalf("expected verified admin session, err=%v", err)
	}
}

func TestUnsignedTokenCannotClaimAdmin(t *testing.T) {
	// {"alg":"none","typ":"JWT"}.{"sub":"attacker","role":"admin"}.
	unsigned := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJzdWIiOiJhdHRhY2tlciIsInJvbGUiOiJhZG1pbiJ9."
	if _, err := New(unsigned); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("alg=none token should be rejected, got %v", err)
	}
	if _, err := New(unsigned, WithVerifyKey("backend-secret")); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("alg=none token should be rejected with verify key, got %v", err)
	}

	forged := signToken(t, "guessed", "admin", time.Now().Add(time.Hour))
	s, err := New(forged)
	if err != nil {
		t.Fatalf("new session failed: %v", err)
	}
	if s.Role() != RoleViewer {
		t.Fatalf("unverified admin claim must be capped at viewer, got %s", s.Role())
	}
}

func TestExpiryInvalidatesOnce(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	clock := now
	token := signToken(t, "k", "viewer", now.Add(time.Minute))
	s, err := New(token, WithClock(func() time.Time { return clock }))
	if err != nil {
		t.Fatalf("new session failed: %v", err)
	}

	var reasons []string
	s.OnInvalidate(func(reason string) { reasons = append(reasons, reason) })

	clock = now.Add(2 * time.Minute)
	if _, err := s.Token(); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
	if _, err := s.Token(); !errors.Is(err, ErrInvalidated) {
		t.Fatalf("expected ErrInvalidated, got %v", err)
	}
	s.Invalidate("logout")
	if len(reasons) != 1 || reasons[0] != "token expired" {
		t.Fatalf("expected single expiry callback, got %v", reasons)
	}

	late := false
	s.OnInvalidate(func(string) { late = true })
	if !late {
		t.Fatalf("expected late callback to fire immediately")
	}
}

func TestExpiredTokenRejectedAtCreation(t *testing.T) {
	token := signToken(t, "k", "admin", time.Now().Add(-time.Minute))
	if _, err := New(token); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}
