package session

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer("secret", 7*24*time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}

	token, err := issuer.Issue("user-1", RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("expected subject user-1 got %q", claims.Subject)
	}
	if claims.Role != RoleUser {
		t.Fatalf("expected role user got %q", claims.Role)
	}
}

func TestTokenUniquePerIssue(t *testing.T) {
	issuer, err := NewTokenIssuer("secret", time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}

	// Freeze the clock: identical subject, role and timestamps must still
	// produce distinct tokens, or a second login could not supersede the
	// first.
	fixed := time.Now()
	issuer.now = func() time.Time { return fixed }

	a, err := issuer.Issue("user-1", RoleUser)
	if err != nil {
		t.Fatalf("issue a: %v", err)
	}
	b, err := issuer.Issue("user-1", RoleUser)
	if err != nil {
		t.Fatalf("issue b: %v", err)
	}
	if a == b {
		t.Fatalf("tokens issued in the same second must differ")
	}
}

func TestTokenExpiry(t *testing.T) {
	issuer, err := NewTokenIssuer("secret", time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}

	issued := time.Now()
	issuer.now = func() time.Time { return issued }
	token, err := issuer.Issue("user-1", RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	issuer.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := issuer.Parse(token); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	a, _ := NewTokenIssuer("secret-a", time.Hour)
	b, _ := NewTokenIssuer("secret-b", time.Hour)

	token, err := a.Issue("user-1", RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := b.Parse(token); err == nil {
		t.Fatalf("expected signature mismatch")
	}
}

func TestTokenIssuerValidation(t *testing.T) {
	if _, err := NewTokenIssuer("", time.Hour); err == nil {
		t.Fatalf("empty secret must be rejected")
	}
	if _, err := NewTokenIssuer("secret", 0); err == nil {
		t.Fatalf("zero ttl must be rejected")
	}
}
