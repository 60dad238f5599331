package account

import (
	"time"

	"github.com/google/uuid"

	"github.com/wellnest/wellnest/internal/platform/access"
)

// Account is a registrant. It owns patients, family-member edges, and a
// subscription; patient documents always live under an account.
type Account struct {
	ID           uuid.UUID `db:"id" json:"id"`
	OwnerSubject string    `db:"owner_subject" json:"owner_subject"`
	OwnerEmail   string    `db:"owner_email" json:"owner_email"`
	Name         string    `db:"name" json:"name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Member statuses.
const (
	StatusInvited = "invited"
	StatusActive  = "active"
	StatusRevoked = "revoked"
)

// FamilyMember links a secondary identity to an owning account, carrying
// the role and per-edge capability grants the access resolver traverses.
// Lifecycle: created on invite, activated on acceptance, removed on
// revocation.
type FamilyMember struct {
	ID            uuid.UUID           `db:"id" json:"id"`
	AccountID     uuid.UUID           `db:"account_id" json:"account_id"`
	MemberSubject string              `db:"member_subject" json:"member_subject,omitempty"`
	MemberEmail   string              `db:"member_email" json:"member_email"`
	Role          access.Role         `db:"role" json:"role"`
	Grants        []access.Capability `db:"grants" json:"grants"`
	Status        string              `db:"status" json:"status"`
	InviteToken   string              `db:"invite_token" json:"-"`
	AcceptedAt    *time.Time          `db:"accepted_at" json:"accepted_at,omitempty"`
	CreatedAt     time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time           `db:"updated_at" json:"updated_at"`
}
