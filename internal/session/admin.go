package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sokocart/sokocart/internal/apperr"
	"github.com/sokocart/sokocart/internal/principal"
)

// Bootstrap credentials used when the admin record is auto-provisioned on
// first settings write. Meant to be replaced immediately.
const (
	defaultAdminEmail    = "admin@sokocart.local"
	defaultAdminPassword = "changeme"
)

// AdminService drives the administrator credential lifecycle. Admin sessions
// are stateless: no token is stored server-side, so a logout only expires
// the cookie and a still-valid token remains usable until natural expiry.
// That gap is deliberate; see the settings handler docs.
type AdminService struct {
	repo   principal.Repository
	tokens *TokenIssuer
	logger *slog.Logger
}

// NewAdminService creates the administrator session service.
func NewAdminService(repo principal.Repository, tokens *TokenIssuer, logger *slog.Logger) *AdminService {
	return &AdminService{repo: repo, tokens: tokens, logger: logger}
}

// Login checks the passphrase against the stored hash and issues a token.
// Mismatches are reported as validation failures without revealing which
// part was wrong. Like UpdateSettings, a missing record is provisioned with
// the bootstrap defaults first, so a fresh install is reachable.
func (s *AdminService) Login(ctx context.Context, email, password string) (string, error) {
	admin, err := s.ensureAdmin(ctx)
	if err != nil {
		return "", err
	}

	if admin.Email != email {
		return "", apperr.Validation("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword(admin.PasswordHash, []byte(password)); err != nil {
		return "", apperr.Validation("invalid email or password")
	}

	token, err := s.tokens.Issue(admin.ID, RoleAdmin)
	if err != nil {
		return "", fmt.Errorf("issue admin token: %w", err)
	}

	s.logger.Info("admin session issued", "admin", admin.ID)
	return token, nil
}

// Validate checks signature and expiry only. There is no stored-token
// comparison for administrators.
func (s *AdminService) Validate(_ context.Context, token string) (string, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil || claims.Role != RoleAdmin {
		return "", apperr.Auth("invalid or expired admin session")
	}
	return claims.Subject, nil
}

// Settings is the mutable part of the admin credential record.
type Settings struct {
	Email    string
	Password string
}

// UpdateSettings changes the admin email and/or password, auto-provisioning
// the record with defaults on first write if it does not exist yet.
func (s *AdminService) UpdateSettings(ctx context.Context, settings Settings) error {
	admin, err := s.ensureAdmin(ctx)
	if err != nil {
		return err
	}

	if settings.Email != "" {
		admin.Email = settings.Email
	}
	if settings.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(settings.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		admin.PasswordHash = hash
	}
	admin.UpdatedAt = time.Now().UTC()

	if err := s.repo.SaveAdmin(ctx, admin); err != nil {
		return fmt.Errorf("save admin: %w", err)
	}
	return nil
}

func (s *AdminService) ensureAdmin(ctx context.Context) (principal.Admin, error) {
	admin, err := s.repo.GetAdmin(ctx)
	if err == nil {
		return admin, nil
	}
	if !errors.Is(err, principal.ErrNotFound) {
		return principal.Admin{}, fmt.Errorf("load admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return principal.Admin{}, fmt.Errorf("hash default password: %w", err)
	}
	admin = principal.Admin{
		ID:           uuid.NewString(),
		Email:        defaultAdminEmail,
		PasswordHash: hash,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.repo.SaveAdmin(ctx, admin); err != nil {
		return principal.Admin{}, fmt.Errorf("provision admin: %w", err)
	}
	s.logger.Warn("admin record auto-provisioned with default credentials")
	return admin, nil
}
