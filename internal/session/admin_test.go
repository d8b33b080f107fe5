package session

import (
	"context"
	"testing"
	"time"

	"github.com/sokocart/sokocart/internal/apperr"
	"github.com/sokocart/sokocart/internal/logging"
	"github.com/sokocart/sokocart/internal/principal"
)

func newTestAdminService(t *testing.T) (*AdminService, principal.Repository) {
	t.Helper()
	repo := principal.NewMemoryRepository()
	tokens, err := NewTokenIssuer("test-secret", 7*24*time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	return NewAdminService(repo, tokens, logging.Discard()), repo
}

func TestAdminLoginProvisionsDefaults(t *testing.T) {
	svc, repo := newTestAdminService(t)
	ctx := context.Background()

	token, err := svc.Login(ctx, defaultAdminEmail, defaultAdminPassword)
	if err != nil {
		t.Fatalf("login with defaults on fresh install: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}

	if _, err := repo.GetAdmin(ctx); err != nil {
		t.Fatalf("admin record must exist after first login: %v", err)
	}
}

func TestAdminLoginMismatch(t *testing.T) {
	svc, _ := newTestAdminService(t)
	ctx := context.Background()

	for _, c := range []struct{ email, password string }{
		{defaultAdminEmail, "wrong"},
		{"nobody@example.com", defaultAdminPassword},
	} {
		_, err := svc.Login(ctx, c.email, c.password)
		appErr, ok := apperr.As(err)
		if !ok || appErr.Kind != apperr.KindValidation {
			t.Errorf("login %s/%s: expected validation error, got %v", c.email, c.password, err)
		}
	}
}

func TestAdminValidateStateless(t *testing.T) {
	svc, _ := newTestAdminService(t)
	ctx := context.Background()

	token, err := svc.Login(ctx, defaultAdminEmail, defaultAdminPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	adminID, err := svc.Validate(ctx, token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if adminID == "" {
		t.Fatalf("expected admin id")
	}

	// A user token never passes the admin gate.
	userTokens, _ := NewTokenIssuer("test-secret", time.Hour)
	userToken, _ := userTokens.Issue("user-1", RoleUser)
	if _, err := svc.Validate(ctx, userToken); err == nil {
		t.Fatalf("user token must not validate as admin")
	}
}

func TestAdminUpdateSettings(t *testing.T) {
	svc, _ := newTestAdminService(t)
	ctx := context.Background()

	// First settings write provisions, then applies the change.
	if err := svc.UpdateSettings(ctx, Settings{Email: "owner@example.com", Password: "s3cret"}); err != nil {
		t.Fatalf("update settings: %v", err)
	}

	if _, err := svc.Login(ctx, "owner@example.com", "s3cret"); err != nil {
		t.Fatalf("login with updated credentials: %v", err)
	}
	if _, err := svc.Login(ctx, defaultAdminEmail, defaultAdminPassword); err == nil {
		t.Fatalf("default credentials must stop working after rotation")
	}
}
