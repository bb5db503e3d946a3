package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("test-secret", "user-service", 24*time.Hour)

	raw, err := m.Issue("user-123", "admin")

	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	id, err := m.Verify(raw)

	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}

	if id.ID != "user-123" || id.Role != "admin" {
		t.Fatalf("got identity %+v, want id=user-123 role=admin", id)
	}
}

func TestVerifyClaims(t *testing.T) {
	m := NewManager("test-secret", "user-service", 24*time.Hour)

	raw, err := m.Issue("user-123", "user")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	// decode without verifying to inspect registered claims
	var claims Claims
	_, _, err = jwt.NewParser().ParseUnverified(raw, &claims)
	if err != nil {
		t.Fatalf("ParseUnverified returned error: %v", err)
	}

	if claims.Issuer != "user-service" {
		t.Errorf("got issuer %q, want user-service", claims.Issuer)
	}

	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		t.Fatalf("iat/exp not set: %+v", claims.RegisteredClaims)
	}

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)

	if lifetime != 24*time.Hour {
		t.Errorf("got lifetime %v, want 24h", lifetime)
	}
}

func TestVerifyExpired(t *testing.T) {
	m := NewManager("test-secret", "user-service", -time.Minute)

	raw, err := m.Issue("user-123", "user")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	_, err = m.Verify(raw)

	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("got %v, want ErrTokenExpired", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewManager("secret-a", "user-service", 24*time.Hour)
	verifier := NewManager("secret-b", "user-service", 24*time.Hour)

	raw, err := issuer.Issue("user-123", "user")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	_, err = verifier.Verify(raw)

	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("got %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	m := NewManager("test-secret", "user-service", 24*time.Hour)

	_, err := m.Verify("not-a-token")

	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("got %v, want ErrTokenInvalid", err)
	}
}
