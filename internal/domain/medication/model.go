package medication

import (
	"time"

	"github.com/google/uuid"
)

// Medication is an ongoing prescription or supplement for a patient.
// PerDay is the expected number of doses per calendar day, used for
// adherence accounting.
type Medication struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Name      string    `db:"name" json:"name"`
	Dosage    float64   `db:"dosage" json:"dosage"`
	Unit      string    `db:"unit" json:"unit"`
	PerDay    int       `db:"per_day" json:"per_day"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DoseLog records a single administered dose.
type DoseLog struct {
	ID           uuid.UUID `db:"id" json:"id"`
	MedicationID uuid.UUID `db:"medication_id" json:"medication_id"`
	TakenAt      time.Time `db:"taken_at" json:"taken_at"`
	LoggedBy     string    `db:"logged_by" json:"logged_by"`
}

// Adherence summarizes dose compliance over a window. Rate is capped at
// 1 even when more doses were logged than expected.
type Adherence struct {
	MedicationID  uuid.UUID `json:"medication_id"`
	Days          int       `json:"days"`
	ExpectedDoses int       `json:"expected_doses"`
	TakenDoses    int       `json:"taken_doses"`
	Rate          float64   `json:"rate"`
}
