package vitals

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wellnest/wellnest/internal/platform/access"
	"github.com/wellnest/wellnest/internal/platform/httpx"
)

var validTypes = map[string]bool{
	TypeHeartRate:        true,
	TypeTemperature:      true,
	TypeWeight:           true,
	TypeGlucose:          true,
	TypeOxygenSaturation: true,
	TypeBloodPressure:    true,
}

type Service struct {
	repo     Repository
	resolver *access.Resolver
}

func NewService(repo Repository, resolver *access.Resolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

// Log records a measurement. A second entry of the same type on the same
// UTC calendar day is rejected with a conflict; clients replace an entry
// by deleting and re-logging.
func (s *Service) Log(ctx context.Context, subject string, v *VitalSign) error {
	grant, err := s.resolver.Resolve(ctx, subject, v.PatientID, access.CapLogVitals)
	if err != nil {
		return err
	}
	if err := validate(v); err != nil {
		return err
	}
	if v.RecordedAt.IsZero() {
		v.RecordedAt = time.Now().UTC()
	}

	exists, err := s.repo.ExistsForDay(ctx, v.PatientID, v.Type, v.RecordedAt)
	if err != nil {
		return httpx.Internal(err)
	}
	if exists {
		return httpx.Duplicate("a " + v.Type + " entry already exists for this day")
	}

	v.LoggedBy = grant.CallerSubject
	if err := s.repo.Create(ctx, v); err != nil {
		return httpx.Internal(err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, subject string, patientID uuid.UUID, vitalType string, from, to time.Time, limit, offset int) ([]*VitalSign, int, error) {
	if _, err := s.resolver.Resolve(ctx, subject, patientID, access.CapViewVitals); err != nil {
		return nil, 0, err
	}
	if vitalType != "" && !validTypes[vitalType] {
		return nil, 0, httpx.Invalid("unknown vital type: "+vitalType, map[string]string{"type": "unknown"})
	}
	items, total, err := s.repo.ListByPatient(ctx, patientID, vitalType, from, to, limit, offset)
	if err != nil {
		return nil, 0, httpx.Internal(err)
	}
	return items, total, nil
}

func (s *Service) Delete(ctx context.Context, subject string, patientID, id uuid.UUID) error {
	if _, err := s.resolver.Resolve(ctx, subject, patientID, access.CapLogVitals); err != nil {
		return err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return httpx.NotFound("vital sign not found")
		}
		return httpx.Internal(err)
	}
	if existing.PatientID != patientID {
		return httpx.NotFound("vital sign not found")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return httpx.Internal(err)
	}
	return nil
}

func validate(v *VitalSign) error {
	if !validTypes[v.Type] {
		return httpx.Invalid("unknown vital type: "+v.Type, map[string]string{"type": "unknown"})
	}
	if v.Type == TypeBloodPressure {
		if v.Systolic == nil || v.Diastolic == nil {
			return httpx.Invalid("blood pressure requires systolic and diastolic", map[string]string{
				"systolic": "required", "diastolic": "required",
			})
		}
		if *v.Systolic <= 0 || *v.Diastolic <= 0 || *v.Diastolic >= *v.Systolic {
			return httpx.Invalid("implausible blood pressure reading", map[string]string{
				"systolic": "must exceed diastolic, both positive",
			})
		}
		return nil
	}
	if v.Value == nil {
		return httpx.Invalid(v.Type+" requires a value", map[string]string{"value": "required"})
	}
	if *v.Value <= 0 {
		return httpx.Invalid("value must be positive", map[string]string{"value": "must be positive"})
	}
	return nil
}
