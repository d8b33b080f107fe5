package principal

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a principal or admin record does not exist.
var ErrNotFound = errors.New("principal not found")

// Repository persists end-user principals and the admin credential record.
//
// SetAuthToken must set the token and clear the OTP fields as one atomic
// mutation: a request aborted mid-verify must never leave the code cleared
// without the token stored, or the reverse.
type Repository interface {
	// UpsertOTP stores a pending code and its expiry on the principal with
	// the given phone, creating the principal on first contact.
	UpsertOTP(ctx context.Context, phone, otp string, expiresAt time.Time) (Principal, error)
	FindByPhone(ctx context.Context, phone string) (Principal, error)
	FindByID(ctx context.Context, id string) (Principal, error)
	// SetAuthToken writes the session token and clears otp/otpExpiresAt.
	SetAuthToken(ctx context.Context, id, token string) error
	// ClearAuthToken nulls the stored session token. Clearing an already-nil
	// token is not an error.
	ClearAuthToken(ctx context.Context, id string) error
	UpdateProfile(ctx context.Context, id, name, address, imageURL string) error

	GetAdmin(ctx context.Context) (Admin, error)
	SaveAdmin(ctx context.Context, admin Admin) error
}
