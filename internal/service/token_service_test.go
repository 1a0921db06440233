package service

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/config"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	tokens := NewTokenService(config.JWTConfig{SecretKey: "k", Issuer: "ms", ExpireHours: 2})
	token, expiresAt, err := tokens.Issue(&models.Account{ID: 7, Email: "a@x.com"})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if time.Until(expiresAt) <= time.Hour {
		t.Fatalf("unexpected expiry %v", expiresAt)
	}
	claims, err := tokens.Parse(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.AccountID != 7 || claims.Email != "a@x.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	other := NewTokenService(config.JWTConfig{SecretKey: "other", Issuer: "ms"})
	if _, err := other.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign secret should fail, got %v", err)
	}
}

func TestTokenServiceExpired(t *testing.T) {
	tokens := NewTokenService(config.JWTConfig{SecretKey: "k", ExpireHours: 1})
	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := tokens.Issue(&models.Account{ID: 1, Email: "a@x.com"})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	tokens.now = time.Now
	if _, err := tokens.Parse(token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expired token should be unauthorized, got %v", err)
	}
}

func TestBearerSessionResolver(t *testing.T) {
	tokens := NewTokenService(config.JWTConfig{SecretKey: "k"})
	token, _, err := tokens.Issue(&models.Account{ID: 1, Email: "A@X.com"})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	resolve := NewBearerSessionResolver(tokens)

	req := httptest.NewRequest("GET", "/api/v1/me", nil)
	if _, ok := resolve(req); ok {
		t.Fatalf("request without header should have no session")
	}
	req.Header.Set("Authorization", "Basic abc")
	if _, ok := resolve(req); ok {
		t.Fatalf("non-bearer scheme should have no session")
	}
	req.Header.Set("Authorization", "bearer "+token)
	email, ok := resolve(req)
	if !ok || email != "a@x.com" {
		t.Fatalf("unexpected session: %q %v", email, ok)
	}
}
