package account

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

// NewPostgresRepository builds a Postgres-backed deletion-request repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const requestColumns = `id, principal_id, reason, status, created_at, decided_at`

// Create inserts a new deletion request.
func (r *PostgresRepository) Create(ctx context.Context, req DeletionRequest) error {
	requestID, err := uuid.Parse(req.ID)
	if err != nil {
		return err
	}
	principalID, err := uuid.Parse(req.PrincipalID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO deletion_requests (id, principal_id, reason, status, created_at)
        VALUES ($1, $2, $3, $4, $5)`, requestID, principalID, req.Reason, string(req.Status), req.CreatedAt.UTC())
	return err
}

// FindByID fetches a deletion request by id.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (DeletionRequest, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return DeletionRequest{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+requestColumns+` FROM deletion_requests WHERE id = $1`, requestID)
	return scanRequest(row)
}

// FindPendingByPrincipal fetches the pending request for a principal.
func (r *PostgresRepository) FindPendingByPrincipal(ctx context.Context, principalID string) (DeletionRequest, error) {
	pid, err := uuid.Parse(principalID)
	if err != nil {
		return DeletionRequest{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+requestColumns+` FROM deletion_requests
        WHERE principal_id = $1 AND status = $2 ORDER BY created_at DESC LIMIT 1`, pid, string(StatusPending))
	return scanRequest(row)
}

// UpdateStatus transitions a request and stamps the decision time.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE deletion_requests SET status = $1, decided_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), requestID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all deletion requests, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]DeletionRequest, error) {
	rows, err := r.db.Query(ctx, `SELECT `+requestColumns+` FROM deletion_requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DeletionRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func scanRequest(row pgx.Row) (DeletionRequest, error) {
	var (
		id     uuid.UUID
		pid    uuid.UUID
		status string
		req    DeletionRequest
	)
	if err := row.Scan(&id, &pid, &req.Reason, &status, &req.CreatedAt, &req.DecidedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DeletionRequest{}, ErrNotFound
		}
		return DeletionRequest{}, err
	}
	req.ID = id.String()
	req.PrincipalID = pid.String()
	req.Status = Status(status)
	return req, nil
}
