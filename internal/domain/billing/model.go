package billing

import (
	"time"

	"github.com/google/uuid"
)

// Subscription statuses.
const (
	StatusTrialing = "trialing"
	StatusActive   = "active"
	StatusCanceled = "canceled"
	StatusExpired  = "expired"
)

// Plans.
const (
	PlanFree    = "free"
	PlanFamily  = "family"
	PlanPremium = "premium"
)

// planSeats is the family-member seat allowance per plan. An explicit
// Seats value on the subscription overrides it.
var planSeats = map[string]int{
	PlanFree:    1,
	PlanFamily:  5,
	PlanPremium: 12,
}

// Subscription is an account's billing state, kept in sync by payment
// provider webhooks. One subscription per account.
type Subscription struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	AccountID        uuid.UUID  `db:"account_id" json:"account_id"`
	Status           string     `db:"status" json:"status"`
	Plan             string     `db:"plan" json:"plan"`
	Seats            int        `db:"seats" json:"seats"`
	CurrentPeriodEnd *time.Time `db:"current_period_end" json:"current_period_end,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// WebhookEvent is the provider-agnostic payload posted by the payment
// processor integration.
type WebhookEvent struct {
	Type             string     `json:"type"`
	AccountID        uuid.UUID  `json:"account_id"`
	Status           string     `json:"status"`
	Plan             string     `json:"plan"`
	Seats            int        `json:"seats"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
}
