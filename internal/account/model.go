// Package account handles account-deletion requests and the session
// revocation they trigger.
package account

import "time"

// Status of a deletion request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// DeletionRequest tracks a user's request to remove their account. At most
// one pending request may exist per principal; the check lives in the
// service, not in storage uniqueness.
type DeletionRequest struct {
	ID          string     `json:"id"`
	PrincipalID string     `json:"principalId"`
	Reason      string     `json:"reason"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	DecidedAt   *time.Time `json:"decidedAt,omitempty"`
}
