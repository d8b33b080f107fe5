package account

import (
	"context"
	"testing"
	"time"

	"github.com/sokocart/sokocart/internal/apperr"
	"github.com/sokocart/sokocart/internal/logging"
	"github.com/sokocart/sokocart/internal/principal"
)

func newTestService(t *testing.T) (*Service, principal.Repository) {
	t.Helper()
	principals := principal.NewMemoryRepository()
	svc := NewService(NewMemoryRepository(), principals, logging.Discard())
	return svc, principals
}

func seedPrincipal(t *testing.T, repo principal.Repository, phone string) principal.Principal {
	t.Helper()
	ctx := context.Background()
	p, err := repo.UpsertOTP(ctx, phone, "123456", time.Now().Add(5*time.Minute))
	if err != nil {
		t.Fatalf("seed principal: %v", err)
	}
	if err := repo.SetAuthToken(ctx, p.ID, "token-"+phone); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	p, err = repo.FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("reload principal: %v", err)
	}
	return p
}

func TestSubmitRevokesSession(t *testing.T) {
	svc, principals := newTestService(t)
	ctx := context.Background()
	p := seedPrincipal(t, principals, "5550001111")

	req, err := svc.Submit(ctx, p.ID, "moving away")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if req.Status != StatusPending {
		t.Fatalf("expected pending, got %s", req.Status)
	}

	reloaded, _ := principals.FindByID(ctx, p.ID)
	if reloaded.AuthToken != nil {
		t.Fatalf("submitting a deletion request must revoke the session")
	}
}

func TestSubmitRequiresReason(t *testing.T) {
	svc, principals := newTestService(t)
	p := seedPrincipal(t, principals, "5550001111")

	_, err := svc.Submit(context.Background(), p.ID, "")
	appErr, ok := apperr.As(err)
	if !ok || appErr.Kind != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitDuplicatePending(t *testing.T) {
	svc, principals := newTestService(t)
	ctx := context.Background()
	p := seedPrincipal(t, principals, "5550001111")

	if _, err := svc.Submit(ctx, p.ID, "first"); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	_, err := svc.Submit(ctx, p.ID, "second")
	appErr, ok := apperr.As(err)
	if !ok || appErr.Kind != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	// Exactly one request exists.
	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 request, got %d", len(all))
	}
}

func TestApproveRevokesTargetSession(t *testing.T) {
	svc, principals := newTestService(t)
	ctx := context.Background()
	p := seedPrincipal(t, principals, "5550001111")

	req, err := svc.Submit(ctx, p.ID, "please delete")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// User logged in again while the request was pending.
	if err := principals.SetAuthToken(ctx, p.ID, "fresh-token"); err != nil {
		t.Fatalf("relogin: %v", err)
	}

	approved, err := svc.Approve(ctx, req.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != StatusApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}
	if approved.DecidedAt == nil {
		t.Fatalf("expected decision timestamp")
	}

	reloaded, _ := principals.FindByID(ctx, p.ID)
	if reloaded.AuthToken != nil {
		t.Fatalf("approval must null the target's stored token")
	}
}

func TestRejectLeavesSessionAlone(t *testing.T) {
	svc, principals := newTestService(t)
	ctx := context.Background()
	p := seedPrincipal(t, principals, "5550001111")

	req, err := svc.Submit(ctx, p.ID, "maybe not")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := principals.SetAuthToken(ctx, p.ID, "fresh-token"); err != nil {
		t.Fatalf("relogin: %v", err)
	}

	rejected, err := svc.Reject(ctx, req.ID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != StatusRejected {
		t.Fatalf("expected rejected, got %s", rejected.Status)
	}

	reloaded, _ := principals.FindByID(ctx, p.ID)
	if reloaded.AuthToken == nil {
		t.Fatalf("rejection must not touch the stored token")
	}
}

func TestDecideTwice(t *testing.T) {
	svc, principals := newTestService(t)
	ctx := context.Background()
	p := seedPrincipal(t, principals, "5550001111")

	req, _ := svc.Submit(ctx, p.ID, "please")
	if _, err := svc.Approve(ctx, req.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	_, err := svc.Approve(ctx, req.ID)
	appErr, ok := apperr.As(err)
	if !ok || appErr.Kind != apperr.KindConflict {
		t.Fatalf("second decision must conflict, got %v", err)
	}
}

func TestDecideUnknownRequest(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Approve(context.Background(), "00000000-0000-0000-0000-000000000000")
	appErr, ok := apperr.As(err)
	if !ok || appErr.Kind != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
