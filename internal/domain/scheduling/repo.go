package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, status string, limit, offset int) ([]*Appointment, int, error)
	// ListUpcoming returns scheduled appointments starting inside the
	// window, across all patients. Used by the reminder notifier.
	ListUpcoming(ctx context.Context, from, to time.Time, limit int) ([]*Appointment, error)
}
