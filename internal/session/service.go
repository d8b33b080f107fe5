// Package session is the session authority: it issues OTPs, exchanges them
// for single-device bearer tokens and validates every protected access
// against the stored credential state.
package session

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/sokocart/sokocart/internal/apperr"
	"github.com/sokocart/sokocart/internal/logging"
	"github.com/sokocart/sokocart/internal/media"
	"github.com/sokocart/sokocart/internal/principal"
	"github.com/sokocart/sokocart/internal/sms"
)

const (
	// testPhone bypasses code generation with a fixed OTP so storefront
	// review builds can log in without a live SMS gateway.
	testPhone = "1234567890"
	testOTP   = "123456"

	phoneLength = 10
	otpDigits   = 6
)

// Service drives the end-user session lifecycle.
type Service struct {
	repo       principal.Repository
	tokens     *TokenIssuer
	sender     sms.Sender
	images     media.Store
	otpTTL     time.Duration
	smsTimeout time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates the end-user session service.
func NewService(repo principal.Repository, tokens *TokenIssuer, sender sms.Sender, images media.Store, otpTTL, smsTimeout time.Duration, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		tokens:     tokens,
		sender:     sender,
		images:     images,
		otpTTL:     otpTTL,
		smsTimeout: smsTimeout,
		logger:     logger,
		now:        time.Now,
	}
}

// OTPResult reports a successful issuance. Code is populated only for the
// reserved test phone.
type OTPResult struct {
	Message string
	Code    string
}

// RequestOTP generates and dispatches a login code for the phone, creating
// the principal on first contact. SMS dispatch failure is a hard failure:
// the stored code is unusable by the client and will be superseded by the
// next issuance.
func (s *Service) RequestOTP(ctx context.Context, phone string) (OTPResult, error) {
	if !validPhone(phone) {
		return OTPResult{}, apperr.Validation("phone number must be exactly 10 digits")
	}

	code := testOTP
	if phone != testPhone {
		generated, err := generateOTP()
		if err != nil {
			return OTPResult{}, fmt.Errorf("generate otp: %w", err)
		}
		code = generated
	}

	expiresAt := s.now().Add(s.otpTTL)
	if _, err := s.repo.UpsertOTP(ctx, phone, code, expiresAt); err != nil {
		return OTPResult{}, fmt.Errorf("store otp: %w", err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.smsTimeout)
	defer cancel()
	body := fmt.Sprintf("Your %s login code is %s. It expires in %d minutes.", "Sokocart", code, int(s.otpTTL.Minutes()))
	if err := s.sender.Send(sendCtx, phone, body); err != nil {
		return OTPResult{}, apperr.Upstream("failed to send verification code", err)
	}

	s.logger.Info("otp issued", "phone", logging.MaskPhone(phone))

	result := OTPResult{Message: "verification code sent"}
	if phone == testPhone {
		result.Message = fmt.Sprintf("verification code sent (test number, use %s)", code)
		result.Code = code
	}
	return result, nil
}

// ImageUpload is an optional profile picture attached during verification.
type ImageUpload struct {
	Data        []byte
	ContentType string
}

// VerifyResult carries the issued token and the sanitized profile.
type VerifyResult struct {
	Token   string
	Profile principal.Profile
}

// VerifyOTP exchanges a pending code for a bearer token. On success the
// stored token is overwritten and the code cleared in one atomic mutation:
// the overwrite is what invalidates any session issued earlier for this
// account, and the clear is what makes codes single-use. A failed attempt
// changes nothing, so the real code survives wrong guesses.
func (s *Service) VerifyOTP(ctx context.Context, phone, code string, image *ImageUpload) (VerifyResult, error) {
	if !validPhone(phone) {
		return VerifyResult{}, apperr.Validation("phone number must be exactly 10 digits")
	}
	if len(code) != otpDigits || !allDigits(code) {
		return VerifyResult{}, apperr.Validation("verification code must be 6 digits")
	}

	p, err := s.repo.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, principal.ErrNotFound) {
			return VerifyResult{}, apperr.NotFound("no account for this phone number")
		}
		return VerifyResult{}, fmt.Errorf("find principal: %w", err)
	}

	if p.OTP == nil || p.OTPExpiresAt == nil || *p.OTP != code || !s.now().Before(*p.OTPExpiresAt) {
		return VerifyResult{}, apperr.Auth("invalid or expired verification code")
	}

	// The image goes first so a collaborator failure surfaces before any
	// token state changes; the code itself stays un-burned and the login can
	// be retried.
	if image != nil {
		if err := s.attachImage(ctx, &p, image); err != nil {
			return VerifyResult{}, err
		}
	}

	token, err := s.tokens.Issue(p.ID, RoleUser)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("issue token: %w", err)
	}

	if err := s.repo.SetAuthToken(ctx, p.ID, token); err != nil {
		return VerifyResult{}, fmt.Errorf("store token: %w", err)
	}

	s.logger.Info("session issued", "principal", p.ID, "phone", logging.MaskPhone(phone))
	return VerifyResult{Token: token, Profile: p.SanitizedProfile()}, nil
}

func (s *Service) attachImage(ctx context.Context, p *principal.Principal, image *ImageUpload) error {
	url, err := s.images.Save(ctx, image.Data, image.ContentType)
	if err != nil {
		return apperr.Upstream("failed to store profile image", err)
	}
	if err := s.repo.UpdateProfile(ctx, p.ID, p.Name, p.Address, url); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	p.ImageURL = url
	return nil
}

// Validate authenticates a protected access. Validity is the conjunction of
// signature, expiry and equality with the stored token; the equality check
// is what enforces single-device sessions, so a cryptographically sound but
// superseded token is rejected here.
func (s *Service) Validate(ctx context.Context, token string) (principal.Principal, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil || claims.Role != RoleUser {
		return principal.Principal{}, apperr.Auth("invalid or expired session")
	}

	p, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, principal.ErrNotFound) {
			return principal.Principal{}, apperr.Auth("invalid or expired session")
		}
		return principal.Principal{}, fmt.Errorf("find principal: %w", err)
	}

	if !p.HasLiveToken(token) {
		return principal.Principal{}, apperr.Auth("session superseded or revoked")
	}
	return p, nil
}

// Logout nulls the stored token for the account the presented token belongs
// to. The principal is resolved from the token itself, never from a
// client-supplied id, so a caller cannot log out an account it does not
// hold a live session for.
func (s *Service) Logout(ctx context.Context, token string) error {
	p, err := s.Validate(ctx, token)
	if err != nil {
		return err
	}
	if err := s.repo.ClearAuthToken(ctx, p.ID); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	s.logger.Info("session revoked", "principal", p.ID, "trigger", "logout")
	return nil
}

func validPhone(phone string) bool {
	return len(phone) == phoneLength && allDigits(phone)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func generateOTP() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
