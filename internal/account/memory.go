package account

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryRepository struct {
	mu       sync.RWMutex
	requests map[string]DeletionRequest
}

// NewMemoryRepository builds an in-memory deletion-request store for tests
// and database-less development.
func NewMemoryRepository() Repository {
	return &memoryRepository{requests: make(map[string]DeletionRequest)}
}

func (r *memoryRepository) Create(_ context.Context, req DeletionRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[req.ID] = req
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (DeletionRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.requests[id]
	if !ok {
		return DeletionRequest{}, ErrNotFound
	}
	return req, nil
}

func (r *memoryRepository) FindPendingByPrincipal(_ context.Context, principalID string) (DeletionRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, req := range r.requests {
		if req.PrincipalID == principalID && req.Status == StatusPending {
			return req, nil
		}
	}
	return DeletionRequest{}, ErrNotFound
}

func (r *memoryRepository) UpdateStatus(_ context.Context, id string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	req.Status = status
	req.DecidedAt = &now
	r.requests[id] = req
	return nil
}

func (r *memoryRepository) List(_ context.Context) ([]DeletionRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]DeletionRequest, 0, len(r.requests))
	for _, req := range r.requests {
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
