package shopping

import (
	"time"

	"github.com/google/uuid"
)

// ShoppingItem is a pantry product tracked per account. Needed marks it
// for the next shopping run; InStock reflects the pantry after purchase.
type ShoppingItem struct {
	ID        uuid.UUID `db:"id" json:"id"`
	AccountID uuid.UUID `db:"account_id" json:"account_id"`
	Name      string    `db:"name" json:"name"`
	Quantity  int       `db:"quantity" json:"quantity"`
	InStock   bool      `db:"in_stock" json:"in_stock"`
	Needed    bool      `db:"needed" json:"needed"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ConfirmResult summarizes a bulk purchase confirmation. Each item is
// processed independently; one failure never rolls back the rest.
type ConfirmResult struct {
	Confirmed int               `json:"confirmed"`
	Failed    int               `json:"failed"`
	Errors    map[string]string `json:"errors,omitempty"`
}
