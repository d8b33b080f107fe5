package account

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a deletion request does not exist.
var ErrNotFound = errors.New("deletion request not found")

// Repository persists deletion requests.
type Repository interface {
	Create(ctx context.Context, req DeletionRequest) error
	FindByID(ctx context.Context, id string) (DeletionRequest, error)
	// FindPendingByPrincipal returns the pending request for a principal, or
	// ErrNotFound when none exists.
	FindPendingByPrincipal(ctx context.Context, principalID string) (DeletionRequest, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	List(ctx context.Context) ([]DeletionRequest, error)
}
