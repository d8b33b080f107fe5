package principal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed principal repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// UpsertOTP creates rows without profile fields, so the free-text columns
// are coalesced on read. Valid in both SELECT and RETURNING position.
const principalColumns = `id, phone, COALESCE(name, ''), COALESCE(address, ''), COALESCE(image_url, ''), otp, otp_expires_at, auth_token, created_at`

// UpsertOTP stores a pending code on the principal, creating the record on
// first contact.
func (r *PostgresRepository) UpsertOTP(ctx context.Context, phone, otp string, expiresAt time.Time) (Principal, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO principals (id, phone, otp, otp_expires_at, created_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (phone) DO UPDATE SET otp = EXCLUDED.otp, otp_expires_at = EXCLUDED.otp_expires_at
        RETURNING `+principalColumns,
		uuid.New(), phone, otp, expiresAt.UTC(), time.Now().UTC())
	return scanPrincipal(row)
}

// FindByPhone fetches a principal by phone number.
func (r *PostgresRepository) FindByPhone(ctx context.Context, phone string) (Principal, error) {
	row := r.db.QueryRow(ctx, `SELECT `+principalColumns+` FROM principals WHERE phone = $1`, phone)
	return scanPrincipal(row)
}

// FindByID fetches a principal by id.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Principal, error) {
	principalID, err := uuid.Parse(id)
	if err != nil {
		return Principal{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+principalColumns+` FROM principals WHERE id = $1`, principalID)
	return scanPrincipal(row)
}

// SetAuthToken stores the session token and clears the OTP fields in a
// single statement, keeping the verify mutation atomic.
func (r *PostgresRepository) SetAuthToken(ctx context.Context, id, token string) error {
	principalID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE principals
        SET auth_token = $1, otp = NULL, otp_expires_at = NULL
        WHERE id = $2`, token, principalID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearAuthToken nulls the stored session token.
func (r *PostgresRepository) ClearAuthToken(ctx context.Context, id string) error {
	principalID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE principals SET auth_token = NULL WHERE id = $1`, principalID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProfile stores the principal's profile fields.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id, name, address, imageURL string) error {
	principalID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE principals SET name = $1, address = $2, image_url = $3 WHERE id = $4`,
		name, address, imageURL, principalID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetAdmin fetches the single admin credential record.
func (r *PostgresRepository) GetAdmin(ctx context.Context) (Admin, error) {
	row := r.db.QueryRow(ctx, `SELECT id, email, password_hash, updated_at FROM admins LIMIT 1`)
	var (
		id    uuid.UUID
		admin Admin
	)
	if err := row.Scan(&id, &admin.Email, &admin.PasswordHash, &admin.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Admin{}, ErrNotFound
		}
		return Admin{}, err
	}
	admin.ID = id.String()
	return admin, nil
}

// SaveAdmin upserts the admin credential record.
func (r *PostgresRepository) SaveAdmin(ctx context.Context, admin Admin) error {
	adminID, err := uuid.Parse(admin.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO admins (id, email, password_hash, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, password_hash = EXCLUDED.password_hash, updated_at = EXCLUDED.updated_at`,
		adminID, admin.Email, admin.PasswordHash, admin.UpdatedAt.UTC())
	return err
}

func scanPrincipal(row pgx.Row) (Principal, error) {
	var (
		id uuid.UUID
		p  Principal
	)
	err := row.Scan(&id, &p.Phone, &p.Name, &p.Address, &p.ImageURL, &p.OTP, &p.OTPExpiresAt, &p.AuthToken, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Principal{}, ErrNotFound
		}
		return Principal{}, err
	}
	p.ID = id.String()
	return p, nil
}
