package nutrition

import (
	"time"

	"github.com/google/uuid"
)

// MealLog is one day's calorie ledger for a patient. Completed marks the
// day as fully logged; only completed days feed the weight projection.
type MealLog struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	Date        time.Time `db:"date" json:"date"`
	CaloriesIn  int       `db:"calories_in" json:"calories_in"`
	CaloriesOut int       `db:"calories_out" json:"calories_out"`
	Completed   bool      `db:"completed" json:"completed"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// WeightLog is a dated weight measurement in pounds.
type WeightLog struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Date      time.Time `db:"date" json:"date"`
	WeightLbs float64   `db:"weight_lbs" json:"weight_lbs"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Projection estimates weekly weight change from the calorie deficit of
// recent completed days. All fields are zero until at least seven
// completed days are logged.
type Projection struct {
	HasEnoughData       bool    `json:"has_enough_data"`
	DaysLogged          int     `json:"days_logged"`
	WeeklyDeficit       int     `json:"weekly_deficit"`
	ProjectedWeightLoss float64 `json:"projected_weight_loss"`
}
