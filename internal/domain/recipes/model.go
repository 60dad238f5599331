package recipes

import (
	"time"

	"github.com/google/uuid"
)

// Recipe belongs to an account. Ingredients is a plain list of product
// names, stored as JSONB.
type Recipe struct {
	ID           uuid.UUID `db:"id" json:"id"`
	AccountID    uuid.UUID `db:"account_id" json:"account_id"`
	Name         string    `db:"name" json:"name"`
	Ingredients  []string  `db:"ingredients" json:"ingredients"`
	Instructions *string   `db:"instructions" json:"instructions,omitempty"`
	Calories     *int      `db:"calories" json:"calories,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// MatchResult ranks a recipe against the pantry. Score sums the best
// product match per ingredient; MissingIngredients lists those with no
// confident match.
type MatchResult struct {
	Recipe             *Recipe  `json:"recipe"`
	Score              int      `json:"score"`
	MissingIngredients []string `json:"missing_ingredients"`
}
