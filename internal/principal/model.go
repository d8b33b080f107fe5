package principal

import "time"

// Principal represents an end-user account identified by phone number. OTP
// and AuthToken are nullable: nil means no code pending / no live session.
type Principal struct {
	ID           string
	Phone        string
	Name         string
	Address      string
	ImageURL     string
	OTP          *string
	OTPExpiresAt *time.Time
	AuthToken    *string
	CreatedAt    time.Time
}

// Admin is the administrative credential record. It never stores a session
// token: admin sessions are validated by signature and expiry alone.
type Admin struct {
	ID           string
	Email        string
	PasswordHash []byte
	UpdatedAt    time.Time
}

// Profile is the sanitized view of a Principal returned to clients. No OTP
// or token material.
type Profile struct {
	ID       string `json:"id"`
	Phone    string `json:"phone"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// SanitizedProfile strips credential fields from a Principal.
func (p Principal) SanitizedProfile() Profile {
	return Profile{
		ID:       p.ID,
		Phone:    p.Phone,
		Name:     p.Name,
		Address:  p.Address,
		ImageURL: p.ImageURL,
	}
}

// HasLiveToken reports whether the stored token matches the presented one.
// A nil stored token never matches.
func (p Principal) HasLiveToken(token string) bool {
	return p.AuthToken != nil && *p.AuthToken == token
}
