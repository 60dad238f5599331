package vitals

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
	entries []*VitalSign
}

func (m *mockRepo) Create(ctx context.Context, v *VitalSign) error {
	v.ID = uuid.New()
	v.LoggedAt = time.Now().UTC()
	m.entries = append(m.entries, v)
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*VitalSign, error) {
	for _, v := range m.entries {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (m *mockRepo) ExistsForDay(ctx context.Context, patientID uuid.UUID, vitalType string, recordedAt time.Time) (bool, error) {
	day := recordedAt.UTC().Truncate(24 * time.Hour)
	for _, v := range m.entries {
		if v.PatientID == patientID && v.Type == vitalType &&
			v.RecordedAt.UTC().Truncate(24*time.Hour).Equal(day) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepo) ListByPatient(ctx context.Context, patientID uuid.UUID, vitalType string, from, to time.Time, limit, offset int) ([]*VitalSign, int, error) {
	var items []*VitalSign
	for _, v := range m.entries {
		if v.PatientID == patientID && (vitalType == "" || v.Type == vitalType) {
			items = append(items, v)
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
	repo := &mockRepo{}
	return NewService(repo, access.NewResolver(store)), patientID, repo
}

func f64(v float64) *float64 { return &v }
func i(v int) *int           { return &v }

func TestLogRejectsSecondEntrySameDay(t *testing.T) {
	svc, patientID, _ := setup()
	ctx := context.Background()
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	first := &VitalSign{PatientID: patientID, Type: TypeWeight, Value: f64(180.5), RecordedAt: at}
	if err := svc.Log(ctx, "owner", first); err != nil {
		t.Fatalf("first log: %v", err)
	}
	if first.LoggedBy != "owner" {
		t.Errorf("LoggedBy = %q, want owner", first.LoggedBy)
	}

	// same day, later hour
	dup := &VitalSign{PatientID: patientID, Type: TypeWeight, Value: f64(181), RecordedAt: at.Add(10 * time.Hour)}
	if err := svc.Log(ctx, "owner", dup); statusOf(t, err) != 409 {
		t.Errorf("same-day duplicate: expected 409, got %v", err)
	}

	// different type same day is fine
	hr := &VitalSign{PatientID: patientID, Type: TypeHeartRate, Value: f64(62), RecordedAt: at}
	if err := svc.Log(ctx, "owner", hr); err != nil {
		t.Errorf("different type: %v", err)
	}

	// next day is fine
	next := &VitalSign{PatientID: patientID, Type: TypeWeight, Value: f64(180), RecordedAt: at.Add(24 * time.Hour)}
	if err := svc.Log(ctx, "owner", next); err != nil {
		t.Errorf("next day: %v", err)
	}
}

func TestLogBloodPressureValidation(t *testing.T) {
	svc, patientID, _ := setup()
	ctx := context.Background()

	missing := &VitalSign{PatientID: patientID, Type: TypeBloodPressure, Systolic: i(120)}
	if err := svc.Log(ctx, "owner", missing); statusOf(t, err) != 400 {
		t.Errorf("missing diastolic: expected 400, got %v", err)
	}

	inverted := &VitalSign{PatientID: patientID, Type: TypeBloodPressure, Systolic: i(70), Diastolic: i(120)}
	if err := svc.Log(ctx, "owner", inverted); statusOf(t, err) != 400 {
		t.Errorf("diastolic above systolic: expected 400, got %v", err)
	}

	ok := &VitalSign{PatientID: patientID, Type: TypeBloodPressure, Systolic: i(120), Diastolic: i(80)}
	if err := svc.Log(ctx, "owner", ok); err != nil {
		t.Errorf("valid reading: %v", err)
	}
	if ok.Value != nil {
		t.Errorf("blood pressure should not carry a scalar value")
	}
}

func TestLogScalarValidation(t *testing.T) {
	svc, patientID, _ := setup()
	ctx := context.Background()

	if err := svc.Log(ctx, "owner", &VitalSign{PatientID: patientID, Type: TypeGlucose}); statusOf(t, err) != 400 {
		t.Error("missing value: expected 400")
	}
	if err := svc.Log(ctx, "owner", &VitalSign{PatientID: patientID, Type: "mood", Value: f64(5)}); statusOf(t, err) != 400 {
		t.Error("unknown type: expected 400")
	}
	if err := svc.Log(ctx, "owner", &VitalSign{PatientID: patientID, Type: TypeHeartRate, Value: f64(-10)}); statusOf(t, err) != 400 {
		t.Error("negative value: expected 400")
	}
}

func TestLogDefaultsRecordedAt(t *testing.T) {
	svc, patientID, _ := setup()

	v := &VitalSign{PatientID: patientID, Type: TypeTemperature, Value: f64(98.6)}
	before := time.Now().UTC()
	if err := svc.Log(context.Background(), "owner", v); err != nil {
		t.Fatalf("Log: %v", err)
	}
	if v.RecordedAt.Before(before) || v.RecordedAt.After(time.Now().UTC()) {
		t.Errorf("RecordedAt not defaulted to now: %v", v.RecordedAt)
	}
}

func TestStrangerCannotLogOrList(t *testing.T) {
	svc, patientID, _ := setup()
	ctx := context.Background()

	v := &VitalSign{PatientID: patientID, Type: TypeWeight, Value: f64(180)}
	if err := svc.Log(ctx, "stranger", v); statusOf(t, err) != 403 {
		t.Errorf("stranger log: expected 403, got %v", err)
	}
	if _, _, err := svc.List(ctx, "stranger", patientID, "", time.Time{}, time.Time{}, 20, 0); statusOf(t, err) != 403 {
		t.Errorf("stranger list: expected 403, got %v", err)
	}
}

func TestDeleteOnlyWithinPatient(t *testing.T) {
	patientA := uuid.New()
	patientB := uuid.New()
	store := &fakeStore{account: uuid.New(), patients: map[uuid.UUID]bool{patientA: true, patientB: true}}
	repo := &mockRepo{}
	svc := NewService(repo, access.NewResolver(store))
	ctx := context.Background()

	v := &VitalSign{PatientID: patientA, Type: TypeWeight, Value: f64(150)}
	if err := svc.Log(ctx, "owner", v); err != nil {
		t.Fatalf("Log: %v", err)
	}

	// addressing patient A's entry through patient B must not find it
	if err := svc.Delete(ctx, "owner", patientB, v.ID); statusOf(t, err) != 404 {
		t.Errorf("cross-patient delete: expected 404, got %v", err)
	}
	if err := svc.Delete(ctx, "owner", patientA, v.ID); err != nil {
		t.Errorf("owner delete: %v", err)
	}
	if err := svc.Delete(ctx, "owner", patientA, uuid.New()); statusOf(t, err) != 404 {
		t.Errorf("missing entry: expected 404, got %v", err)
	}
}
