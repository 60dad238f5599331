package nutrition

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wellnest/wellnest/internal/platform/access"
	"github.com/wellnest/wellnest/internal/platform/httpx"
)

// caloriesPerPound is the conversion used by the weekly projection.
const caloriesPerPound = 3500

// minProjectionDays is the number of completed days required before the
// projection reports anything but zeros.
const minProjectionDays = 7

// projectionLookbackDays bounds how old a completed day may be and still
// feed the projection; months-old logs do not describe current habits.
const projectionLookbackDays = 30

type Service struct {
	repo     Repository
	resolver *access.Resolver
}

func NewService(repo Repository, resolver *access.Resolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

// LogMeals upserts a day's calorie ledger. Logging twice for the same
// date replaces the earlier entry.
func (s *Service) LogMeals(ctx context.Context, subject string, m *MealLog) error {
	if _, err := s.resolver.Resolve(ctx, subject, m.PatientID, access.CapLogMeals); err != nil {
		return err
	}
	fields := map[string]string{}
	if m.Date.IsZero() {
		fields["date"] = "required"
	}
	if m.CaloriesIn < 0 {
		fields["calories_in"] = "must not be negative"
	}
	if m.CaloriesOut < 0 {
		fields["calories_out"] = "must not be negative"
	}
	if len(fields) > 0 {
		return httpx.Invalid("invalid meal log", fields)
	}
	m.Date = m.Date.UTC().Truncate(24 * time.Hour)
	if err := s.repo.UpsertMealLog(ctx, m); err != nil {
		return httpx.Internal(err)
	}
	return nil
}

func (s *Service) ListMeals(ctx context.Context, subject string, patientID uuid.UUID, from, to time.Time, limit, offset int) ([]*MealLog, int, error) {
	if _, err := s.resolver.Resolve(ctx, subject, patientID, access.CapViewNutrition); err != nil {
		return nil, 0, err
	}
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	items, total, err := s.repo.ListMealLogs(ctx, patientID, from, to, limit, offset)
	if err != nil {
		return nil, 0, httpx.Internal(err)
	}
	return items, total, nil
}

func (s *Service) LogWeight(ctx context.Context, subject string, w *WeightLog) error {
	if _, err := s.resolver.Resolve(ctx, subject, w.PatientID, access.CapLogMeals); err != nil {
		return err
	}
	fields := map[string]string{}
	if w.Date.IsZero() {
		fields["date"] = "required"
	}
	if w.WeightLbs <= 0 {
		fields["weight_lbs"] = "must be positive"
	}
	if len(fields) > 0 {
		return httpx.Invalid("invalid weight log", fields)
	}
	w.Date = w.Date.UTC().Truncate(24 * time.Hour)
	if err := s.repo.CreateWeightLog(ctx, w); err != nil {
		return httpx.Internal(err)
	}
	return nil
}

func (s *Service) ListWeights(ctx context.Context, subject string, patientID uuid.UUID, limit, offset int) ([]*WeightLog, int, error) {
	if _, err := s.resolver.Resolve(ctx, subject, patientID, access.CapViewNutrition); err != nil {
		return nil, 0, err
	}
	items, total, err := s.repo.ListWeightLogs(ctx, patientID, limit, offset)
	if err != nil {
		return nil, 0, httpx.Internal(err)
	}
	return items, total, nil
}

// ComputeProjection estimates weekly weight change from the seven most
// recent completed days within the trailing 30-day window. With fewer
// than seven such days every field is zero and HasEnoughData is false;
// no partial estimates.
func (s *Service) ComputeProjection(ctx context.Context, subject string, patientID uuid.UUID) (*Projection, error) {
	if _, err := s.resolver.Resolve(ctx, subject, patientID, access.CapViewNutrition); err != nil {
		return nil, err
	}
	since := time.Now().UTC().AddDate(0, 0, -projectionLookbackDays).Truncate(24 * time.Hour)
	days, err := s.repo.CompletedDays(ctx, patientID, since, minProjectionDays)
	if err != nil {
		return nil, httpx.Internal(err)
	}
	if len(days) < minProjectionDays {
		return &Projection{}, nil
	}

	deficit := 0
	for _, d := range days {
		deficit += d.CaloriesOut - d.CaloriesIn
	}
	return &Projection{
		HasEnoughData:       true,
		DaysLogged:          len(days),
		WeeklyDeficit:       deficit,
		ProjectedWeightLoss: float64(deficit) / caloriesPerPound,
	}, nil
}
