package medication

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *Medication) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medication, error)
	Update(ctx context.Context, m *Medication) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, activeOnly bool, limit, offset int) ([]*Medication, int, error)
	LogDose(ctx context.Context, d *DoseLog) error
	CountDoses(ctx context.Context, medicationID uuid.UUID, from, to time.Time) (int, error)
	ListDoses(ctx context.Context, medicationID uuid.UUID, limit, offset int) ([]*DoseLog, int, error)
}
