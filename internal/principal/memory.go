package principal

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]Principal
	admin *Admin
}

// NewMemoryRepository builds an in-memory principal store for tests and
// database-less development.
func NewMemoryRepository() Repository {
	return &memoryRepository{byID: make(map[string]Principal)}
}

func (r *memoryRepository) UpsertOTP(_ context.Context, phone, otp string, expiresAt time.Time) (Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.byID {
		if p.Phone == phone {
			code, exp := otp, expiresAt
			p.OTP = &code
			p.OTPExpiresAt = &exp
			r.byID[id] = p
			return p, nil
		}
	}
	code, exp := otp, expiresAt
	p := Principal{
		ID:           uuid.NewString(),
		Phone:        phone,
		OTP:          &code,
		OTPExpiresAt: &exp,
		CreatedAt:    time.Now().UTC(),
	}
	r.byID[p.ID] = p
	return p, nil
}

func (r *memoryRepository) FindByPhone(_ context.Context, phone string) (Principal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.byID {
		if p.Phone == phone {
			return p, nil
		}
	}
	return Principal{}, ErrNotFound
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (Principal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return Principal{}, ErrNotFound
	}
	return p, nil
}

func (r *memoryRepository) SetAuthToken(_ context.Context, id, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	t := token
	p.AuthToken = &t
	p.OTP = nil
	p.OTPExpiresAt = nil
	r.byID[id] = p
	return nil
}

func (r *memoryRepository) ClearAuthToken(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	p.AuthToken = nil
	r.byID[id] = p
	return nil
}

func (r *memoryRepository) UpdateProfile(_ context.Context, id, name, address, imageURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	p.Name = name
	p.Address = address
	p.ImageURL = imageURL
	r.byID[id] = p
	return nil
}

func (r *memoryRepository) GetAdmin(_ context.Context) (Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.admin == nil {
		return Admin{}, ErrNotFound
	}
	return *r.admin, nil
}

func (r *memoryRepository) SaveAdmin(_ context.Context, admin Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := admin
	r.admin = &a
	return nil
}
