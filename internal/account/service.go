package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sokocart/sokocart/internal/apperr"
	"github.com/sokocart/sokocart/internal/principal"
)

// Service drives the deletion-request lifecycle and the revocations it
// triggers.
type Service struct {
	repo       Repository
	principals principal.Repository
	logger     *slog.Logger
}

// NewService creates the account service.
func NewService(repo Repository, principals principal.Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, principals: principals, logger: logger}
}

// Submit files a deletion request for the principal and immediately revokes
// their session, forcing a re-login. A principal with a request already
// pending gets a conflict reporting the existing one; no duplicate row is
// created.
func (s *Service) Submit(ctx context.Context, principalID, reason string) (DeletionRequest, error) {
	if reason == "" {
		return DeletionRequest{}, apperr.Validation("a reason is required")
	}

	if existing, err := s.repo.FindPendingByPrincipal(ctx, principalID); err == nil {
		return DeletionRequest{}, apperr.Conflict(fmt.Sprintf("a deletion request is already pending (submitted %s)",
			existing.CreatedAt.Format(time.RFC3339)))
	} else if !errors.Is(err, ErrNotFound) {
		return DeletionRequest{}, fmt.Errorf("check pending request: %w", err)
	}

	req := DeletionRequest{
		ID:          uuid.NewString(),
		PrincipalID: principalID,
		Reason:      reason,
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return DeletionRequest{}, fmt.Errorf("create deletion request: %w", err)
	}

	if err := s.principals.ClearAuthToken(ctx, principalID); err != nil {
		return DeletionRequest{}, fmt.Errorf("revoke session: %w", err)
	}

	s.logger.Info("session revoked", "principal", principalID, "trigger", "deletion_request")
	return req, nil
}

// Approve transitions a pending request to approved and nulls the target's
// stored token in the same operation. Their cookie is not proactively
// cleared; it simply fails validation on next use.
func (s *Service) Approve(ctx context.Context, requestID string) (DeletionRequest, error) {
	req, err := s.decide(ctx, requestID, StatusApproved)
	if err != nil {
		return DeletionRequest{}, err
	}

	if err := s.principals.ClearAuthToken(ctx, req.PrincipalID); err != nil && !errors.Is(err, principal.ErrNotFound) {
		return DeletionRequest{}, fmt.Errorf("revoke session: %w", err)
	}

	s.logger.Info("session revoked", "principal", req.PrincipalID, "trigger", "deletion_approved")
	return req, nil
}

// Reject transitions a pending request to rejected. The requester's next
// login proceeds normally; no token is touched.
func (s *Service) Reject(ctx context.Context, requestID string) (DeletionRequest, error) {
	return s.decide(ctx, requestID, StatusRejected)
}

// List returns every deletion request for the admin surface.
func (s *Service) List(ctx context.Context) ([]DeletionRequest, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list deletion requests: %w", err)
	}
	return out, nil
}

func (s *Service) decide(ctx context.Context, requestID string, status Status) (DeletionRequest, error) {
	req, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return DeletionRequest{}, apperr.NotFound("deletion request not found")
		}
		return DeletionRequest{}, fmt.Errorf("find deletion request: %w", err)
	}
	if req.Status != StatusPending {
		return DeletionRequest{}, apperr.Conflict(fmt.Sprintf("request already %s", req.Status))
	}

	if err := s.repo.UpdateStatus(ctx, requestID, status); err != nil {
		return DeletionRequest{}, fmt.Errorf("update deletion request: %w", err)
	}
	req.Status = status
	now := time.Now().UTC()
	req.DecidedAt = &now
	return req, nil
}
