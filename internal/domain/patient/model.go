package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a household member whose health is tracked: a person or a
// pet. Records always live under the owning account.
type Patient struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	AccountID uuid.UUID  `db:"account_id" json:"account_id"`
	Name      string     `db:"name" json:"name"`
	Species   string     `db:"species" json:"species"`
	BirthDate *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Notes     *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}
