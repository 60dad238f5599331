package medication

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wellnest/wellnest/internal/platform/access"
	"github.com/wellnest/wellnest/internal/platform/httpx"
)

type Service struct {
	repo     Repository
	resolver *access.Resolver
}

func NewService(repo Repository, resolver *access.Resolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

func (s *Service) Create(ctx context.Context, subject string, m *Medication) error {
	if _, err := s.resolver.Resolve(ctx, subject, m.PatientID, access.CapLogMedications); err != nil {
		return err
	}
	if err := validate(m); err != nil {
		return err
	}
	m.Active = true
	if err := s.repo.Create(ctx, m); err != nil {
		return httpx.Internal(err)
	}
	return nil
}

func (s *Service) Update(ctx context.Context, subject string, patientID, id uuid.UUID, m *Medication) (*Medication, error) {
	if _, err := s.resolver.Resolve(ctx, subject, patientID, access.CapLogMedications); err != nil {
		return nil, err
	}
	existing, err := s.medicationForPatient(ctx, id, patientID)
	if err != nil {
		return nil, err
	}
	if err := validate(m); err != nil {
		return nil, err
	}
	existing.Name = m.Name
	existing.Dosage = m.Dosage
	existing.Unit = m.Unit
	existing.PerDay = m.PerDay
	existing.Active = m.Active
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, httpx.Internal(err)
	}
	return existing, nil
}

func (s *Service) List(ctx context.Context, subject string, patientID uuid.UUID, activeOnly bool, limit, offset int) ([]*Medication, int, error) {
	if _, err := s.resolver.Resolve(ctx, subject, patientID, access.CapViewMedications); err != nil {
		return nil, 0, err
	}
	items, total, err := s.repo.ListByPatient(ctx, patientID, activeOnly, limit, offset)
	if err != nil {
		return nil, 0, httpx.Internal(err)
	}
	return items, total, nil
}

// LogDose records an administered dose for an active medication.
func (s *Service) LogDose(ctx context.Context, subject string, patientID, medicationID uuid.UUID, takenAt time.Time) (*DoseLog, error) {
	grant, err := s.resolver.Resolve(ctx, subject, patientID, access.CapLogMedications)
	if err != nil {
		return nil, err
	}
	m, err := s.medicationForPatient(ctx, medicationID, patientID)
	if err != nil {
		return nil, err
	}
	if !m.Active {
		return nil, httpx.Invalid("medication is inactive", map[string]string{"medication_id": "inactive"})
	}
	if takenAt.IsZero() {
		takenAt = time.Now().UTC()
	}
	d := &DoseLog{MedicationID: medicationID, TakenAt: takenAt, LoggedBy: grant.CallerSubject}
	if err := s.repo.LogDose(ctx, d); err != nil {
		return nil, httpx.Internal(err)
	}
	return d, nil
}

func (s *Service) ListDoses(ctx context.Context, subject string, patientID, medicationID uuid.UUID, limit, offset int) ([]*DoseLog, int, error) {
	if _, err := s.resolver.Resolve(ctx, subject, patientID, access.CapViewMedications); err != nil {
		return nil, 0, err
	}
	if _, err := s.medicationForPatient(ctx, medicationID, patientID); err != nil {
		return nil, 0, err
	}
	items, total, err := s.repo.ListDoses(ctx, medicationID, limit, offset)
	if err != nil {
		return nil, 0, httpx.Internal(err)
	}
	return items, total, nil
}

// ComputeAdherence reports dose compliance over the trailing window of
// whole days ending now. Expected doses are days times PerDay; when that
// is zero the rate is zero, and the rate never exceeds 1.
func (s *Service) ComputeAdherence(ctx context.Context, subject string, patientID, medicationID uuid.UUID, days int) (*Adherence, error) {
	if _, err := s.resolver.Resolve(ctx, subject, patientID, access.CapViewMedications); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 7
	}
	m, err := s.medicationForPatient(ctx, medicationID, patientID)
	if err != nil {
		return nil, err
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -days)
	taken, err := s.repo.CountDoses(ctx, medicationID, from, to)
	if err != nil {
		return nil, httpx.Internal(err)
	}

	a := &Adherence{
		MedicationID:  medicationID,
		Days:          days,
		ExpectedDoses: days * m.PerDay,
		TakenDoses:    taken,
	}
	if a.ExpectedDoses > 0 {
		a.Rate = float64(taken) / float64(a.ExpectedDoses)
		if a.Rate > 1 {
			a.Rate = 1
		}
	}
	return a, nil
}

func (s *Service) medicationForPatient(ctx context.Context, id, patientID uuid.UUID) (*Medication, error) {
	m, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.NotFound("medication not found")
	}
	if err != nil {
		return nil, httpx.Internal(err)
	}
	if m.PatientID != patientID {
		return nil, httpx.NotFound("medication not found")
	}
	return m, nil
}

func validate(m *Medication) error {
	fields := map[string]string{}
	if strings.TrimSpace(m.Name) == "" {
		fields["name"] = "required"
	}
	if m.Dosage <= 0 {
		fields["dosage"] = "must be positive"
	}
	if strings.TrimSpace(m.Unit) == "" {
		fields["unit"] = "required"
	}
	if m.PerDay < 0 {
		fields["per_day"] = "must not be negative"
	}
	if len(fields) > 0 {
		return httpx.Invalid("invalid medication", fields)
	}
	return nil
}
