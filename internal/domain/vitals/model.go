package vitals

import (
	"time"

	"github.com/google/uuid"
)

// Vital sign types.
const (
	TypeHeartRate        = "heart_rate"
	TypeTemperature      = "temperature"
	TypeWeight           = "weight"
	TypeGlucose          = "glucose"
	TypeOxygenSaturation = "oxygen_saturation"
	TypeBloodPressure    = "blood_pressure"
)

// VitalSign is a single measurement. Blood pressure carries systolic and
// diastolic; every other type carries a single value. At most one entry
// per patient, type, and UTC calendar day of RecordedAt.
type VitalSign struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PatientID  uuid.UUID `db:"patient_id" json:"patient_id"`
	Type       string    `db:"type" json:"type"`
	Value      *float64  `db:"value" json:"value,omitempty"`
	Systolic   *int      `db:"systolic" json:"systolic,omitempty"`
	Diastolic  *int      `db:"diastolic" json:"diastolic,omitempty"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
	LoggedAt   time.Time `db:"logged_at" json:"logged_at"`
	LoggedBy   string    `db:"logged_by" json:"logged_by"`
}
