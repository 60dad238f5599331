package scheduling

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

var validStatuses = map[string]bool{
	StatusScheduled: true,
	StatusCompleted: true,
	StatusCanceled:  true,
}

type Service struct {
	repo     Repository
	resolver *access.Resolver
}

func NewService(repo Repository, resolver *access.Resolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

func (s *Service) Create(ctx context.Context, subject string, a *Appointment) error {
	if _, err := s.resolver.Resolve(ctx, subject, a.PatientID, access.CapScheduleAppointments); err != nil {
		return err
	}
	fields := map[string]string{}
	if strings.TrimSpace(a.Title) == "" {
		fields["title"] = "required"
	}
	if a.StartTime.IsZero() {
		fields["start_time"] = "required"
	}
	if len(fields) > 0 {
		return httpx.Invalid("invalid appointment", fields)
	}
	a.Status = StatusScheduled
	if err := s.repo.Create(ctx, a); err != nil {
		return httpx.Internal(err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, subject string, patientID, id uuid.UUID) (*Appointment, error) {
	if _, err := s.resolver.Resolve(ctx, subject, patientID, access.CapViewAppointments); err != nil {
		return nil, err
	}
	return s.forPatient(ctx, id, patientID)
}

// UpdateStatus moves the appointment through its lifecycle. Completed and
// canceled are terminal.
func (s *Service) UpdateStatus(ctx context.Context, subject string, patientID, id uuid.UUID, status string) (*Appointment, error) {
	if _, err := s.resolver.Resolve(ctx, subject, patientID, access.CapScheduleAppointments); err != nil {
		return nil, err
	}
	if !validStatuses[status] {
		return nil, httpx.Invalid("invalid status: "+status, map[string]string{"status": "must be scheduled, completed, or canceled"})
	}
	a, err := s.forPatient(ctx, id, patientID)
	if err != nil {
		return nil, err
	}
	if a.Status != StatusScheduled && a.Status != status {
		return nil, httpx.Duplicate("appointment already " + a.Status)
	}
	a.Status = status
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, httpx.Internal(err)
	}
	return a, nil
}

func (s *Service) Update(ctx context.Context, subject string, patientID, id uuid.UUID, in *Appointment) (*Appointment, error) {
	if _, err := s.resolver.Resolve(ctx, subject, patientID, access.CapScheduleAppointments); err != nil {
		return nil, err
	}
	a, err := s.forPatient(ctx, id, patientID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, httpx.Invalid("invalid appointment", map[string]string{"title": "required"})
	}
	if in.StartTime.IsZero() {
		return nil, httpx.Invalid("invalid appointment", map[string]string{"start_time": "required"})
	}
	a.Title = in.Title
	a.Provider = in.Provider
	a.Location = in.Location
	a.StartTime = in.StartTime
	a.Notes = in.Notes
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, httpx.Internal(err)
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, subject string, patientID uuid.UUID, status string, limit, offset int) ([]*Appointment, int, error) {
	if _, err := s.resolver.Resolve(ctx, subject, patientID, access.CapViewAppointments); err != nil {
		return nil, 0, err
	}
	if status != "" && !validStatuses[status] {
		return nil, 0, httpx.Invalid("invalid status: "+status, map[string]string{"status": "unknown"})
	}
	items, total, err := s.repo.ListByPatient(ctx, patientID, status, limit, offset)
	if err != nil {
		return nil, 0, httpx.Internal(err)
	}
	return items, total, nil
}

// ListUpcoming is the notifier's view: no per-patient access check, the
// caller is the system itself.
func (s *Service) ListUpcoming(ctx context.Context, window time.Duration, limit int) ([]*Appointment, error) {
	now := time.Now().UTC()
	return s.repo.ListUpcoming(ctx, now, now.Add(window), limit)
}

func (s *Service) forPatient(ctx context.Context, id, patientID uuid.UUID) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.NotFound("appointment not found")
	}
	if err != nil {
		return nil, httpx.Internal(err)
	}
	if a.PatientID != patientID {
		return nil, httpx.NotFound("appointment not found")
	}
	return a, nil
}
