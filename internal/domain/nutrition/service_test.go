package nutrition

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wellnest/wellnest/internal/platform/access"
	"github.com/wellnest/wellnest/internal/platform/httpx"
)

type fakeStore struct {
	account  uuid.UUID
	patients map[uuid.UUID]bool
}

func (f *fakeStore) AccountIDBySubject(ctx context.Context, subject string) (uuid.UUID, error) {
	if subject == "owner" {
		return f.account, nil
	}
	return uuid.Nil, nil
}

func (f *fakeStore) PatientInAccount(ctx context.Context, patientID, accountID uuid.UUID) (bool, error) {
	return accountID == f.account && f.patients[patientID], nil
}

func (f *fakeStore) ActiveEdgesForSubject(ctx context.Context, subject string) ([]access.Edge, error) {
	return nil, nil
}

type mockRepo struct {
	meals   map[string]*MealLog // patientID|date
	weights []*WeightLog
}

func newMockRepo() *mockRepo { return &mockRepo{meals: map[string]*MealLog{}} }

func mealKey(patientID uuid.UUID, date time.Time) string {
	return patientID.String() + "|" + date.UTC().Format("2006-01-02")
}

func (m *mockRepo) UpsertMealLog(ctx context.Context, ml *MealLog) error {
	if ml.ID == uuid.Nil {
		ml.ID = uuid.New()
	}
	m.meals[mealKey(ml.PatientID, ml.Date)] = ml
	return nil
}

func (m *mockRepo) GetMealLog(ctx context.Context, patientID uuid.UUID, date time.Time) (*MealLog, error) {
	if ml, ok := m.meals[mealKey(patientID, date)]; ok {
		return ml, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *mockRepo) ListMealLogs(ctx context.Context, patientID uuid.UUID, from, to time.Time, limit, offset int) ([]*MealLog, int, error) {
	var items []*MealLog
	for _, ml := range m.meals {
		if ml.PatientID == patientID {
			items = append(items, ml)
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) CompletedDays(ctx context.Context, patientID uuid.UUID, since time.Time, limit int) ([]*MealLog, error) {
	var items []*MealLog
	for _, ml := range m.meals {
		if ml.PatientID == patientID && ml.Completed && !ml.Date.Before(since) {
			items = append(items, ml)
		}
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (m *mockRepo) CreateWeightLog(ctx context.Context, w *WeightLog) error {
	w.ID = uuid.New()
	m.weights = append(m.weights, w)
	return nil
}

func (m *mockRepo) ListWeightLogs(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*WeightLog, int, error) {
	var items []*WeightLog
	for _, w := range m.weights {
		if w.PatientID == patientID {
			items = append(items, w)
		}
	}
	return items, len(items), nil
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *httpx.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *httpx.Error, got %T: %v", err, err)
	}
	return appErr.Status
}

func setup() (*Service, uuid.UUID, *mockRepo) {
	patientID := uuid.New()
	store := &fakeStore{account: uuid.New(), patients: map[uuid.UUID]bool{patientID: true}}
	repo := newMockRepo()
	return NewService(repo, access.NewResolver(store)), patientID, repo
}

// day returns midnight UTC n days before today, so fixtures stay inside
// the projection's lookback window.
func day(n int) time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -n)
}

func completedDay(patientID uuid.UUID, n, in, out int) *MealLog {
	return &MealLog{PatientID: patientID, Date: day(n), CaloriesIn: in, CaloriesOut: out, Completed: true}
}

func TestLogMealsReplacesSameDay(t *testing.T) {
	svc, patientID, repo := setup()
	ctx := context.Background()

	first := &MealLog{PatientID: patientID, Date: day(0), CaloriesIn: 2000, CaloriesOut: 2200}
	if err := svc.LogMeals(ctx, "owner", first); err != nil {
		t.Fatalf("first log: %v", err)
	}
	second := &MealLog{PatientID: patientID, Date: day(0), CaloriesIn: 1800, CaloriesOut: 2200, Completed: true}
	if err := svc.LogMeals(ctx, "owner", second); err != nil {
		t.Fatalf("second log: %v", err)
	}

	stored, err := repo.GetMealLog(ctx, patientID, day(0))
	if err != nil {
		t.Fatalf("GetMealLog: %v", err)
	}
	if stored.CaloriesIn != 1800 || !stored.Completed {
		t.Errorf("same-day log not replaced: %+v", stored)
	}
}

func TestLogMealsValidation(t *testing.T) {
	svc, patientID, _ := setup()
	ctx := context.Background()

	bad := &MealLog{PatientID: patientID, CaloriesIn: -1, CaloriesOut: -1}
	if err := svc.LogMeals(ctx, "owner", bad); statusOf(t, err) != 400 {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestProjectionNeedsSevenCompletedDays(t *testing.T) {
	svc, patientID, repo := setup()
	ctx := context.Background()

	// six completed days plus an incomplete seventh
	for n := 0; n < 6; n++ {
		repo.UpsertMealLog(ctx, completedDay(patientID, n, 1800, 2300))
	}
	repo.UpsertMealLog(ctx, &MealLog{PatientID: patientID, Date: day(6), CaloriesIn: 1800, CaloriesOut: 2300})

	p, err := svc.ComputeProjection(ctx, "owner", patientID)
	if err != nil {
		t.Fatalf("ComputeProjection: %v", err)
	}
	if p.HasEnoughData || p.DaysLogged != 0 || p.WeeklyDeficit != 0 || p.ProjectedWeightLoss != 0 {
		t.Errorf("expected all-zero projection, got %+v", p)
	}
}

func TestProjectionArithmetic(t *testing.T) {
	svc, patientID, repo := setup()
	ctx := context.Background()

	// 7 days, each 500 calorie deficit: 3500 total, one pound per week
	for n := 0; n < 7; n++ {
		repo.UpsertMealLog(ctx, completedDay(patientID, n, 1800, 2300))
	}

	p, err := svc.ComputeProjection(ctx, "owner", patientID)
	if err != nil {
		t.Fatalf("ComputeProjection: %v", err)
	}
	if !p.HasEnoughData || p.DaysLogged != 7 {
		t.Fatalf("expected full data, got %+v", p)
	}
	if p.WeeklyDeficit != 3500 {
		t.Errorf("WeeklyDeficit = %d, want 3500", p.WeeklyDeficit)
	}
	if p.ProjectedWeightLoss != 1.0 {
		t.Errorf("ProjectedWeightLoss = %f, want 1.0", p.ProjectedWeightLoss)
	}
}

func TestProjectionIgnoresStaleDays(t *testing.T) {
	svc, patientID, repo := setup()
	ctx := context.Background()

	// a full week of completed logs, all from two months ago
	for n := 60; n < 67; n++ {
		repo.UpsertMealLog(ctx, completedDay(patientID, n, 1800, 2300))
	}

	p, err := svc.ComputeProjection(ctx, "owner", patientID)
	if err != nil {
		t.Fatalf("ComputeProjection: %v", err)
	}
	if p.HasEnoughData || p.WeeklyDeficit != 0 {
		t.Errorf("stale logs must not drive a current projection, got %+v", p)
	}

	// recent completed days restore the projection
	for n := 0; n < 7; n++ {
		repo.UpsertMealLog(ctx, completedDay(patientID, n, 1800, 2300))
	}
	p, err = svc.ComputeProjection(ctx, "owner", patientID)
	if err != nil {
		t.Fatalf("ComputeProjection: %v", err)
	}
	if !p.HasEnoughData || p.WeeklyDeficit != 3500 {
		t.Errorf("recent logs should project, got %+v", p)
	}
}

func TestProjectionSurplusGoesNegative(t *testing.T) {
	svc, patientID, repo := setup()
	ctx := context.Background()

	for n := 0; n < 7; n++ {
		repo.UpsertMealLog(ctx, completedDay(patientID, n, 2500, 2000))
	}

	p, err := svc.ComputeProjection(ctx, "owner", patientID)
	if err != nil {
		t.Fatalf("ComputeProjection: %v", err)
	}
	if p.WeeklyDeficit != -3500 || p.ProjectedWeightLoss != -1.0 {
		t.Errorf("surplus should project weight gain, got %+v", p)
	}
}

func TestLogWeightValidation(t *testing.T) {
	svc, patientID, _ := setup()
	ctx := context.Background()

	if err := svc.LogWeight(ctx, "owner", &WeightLog{PatientID: patientID, Date: day(0), WeightLbs: 0}); statusOf(t, err) != 400 {
		t.Error("zero weight: expected 400")
	}
	if err := svc.LogWeight(ctx, "owner", &WeightLog{PatientID: patientID, Date: day(0), WeightLbs: 182.4}); err != nil {
		t.Errorf("valid weight: %v", err)
	}
}

func TestStrangerDenied(t *testing.T) {
	svc, patientID, _ := setup()
	ctx := context.Background()

	if err := svc.LogMeals(ctx, "stranger", &MealLog{PatientID: patientID, Date: day(0)}); statusOf(t, err) != 403 {
		t.Error("stranger log: expected 403")
	}
	if _, err := svc.ComputeProjection(ctx, "stranger", patientID); statusOf(t, err) != 403 {
		t.Error("stranger projection: expected 403")
	}
}
