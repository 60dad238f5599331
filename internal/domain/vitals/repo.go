package vitals

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, v *VitalSign) error
	GetByID(ctx context.Context, id uuid.UUID) (*VitalSign, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ExistsForDay reports whether the patient already has an entry of the
	// given type on the UTC calendar day containing recordedAt.
	ExistsForDay(ctx context.Context, patientID uuid.UUID, vitalType string, recordedAt time.Time) (bool, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, vitalType string, from, to time.Time, limit, offset int) ([]*VitalSign, int, error)
}
