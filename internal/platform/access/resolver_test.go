package access

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/wellnest/wellnest/internal/platform/httpx"
)

type fakeStore struct {
	accountsBySubject map[string]uuid.UUID
	patientsByAccount map[uuid.UUID][]uuid.UUID
	edgesBySubject    map[string][]Edge
	err               error
}

func (f *fakeStore) AccountIDBySubject(_ context.Context, subject string) (uuid.UUID, error) {
	if f.err != nil {
		return uuid.Nil, f.err
	}
	return f.accountsBySubject[subject], nil
}

func (f *fakeStore) PatientInAccount(_ context.Context, patientID, accountID uuid.UUID) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, p := range f.patientsByAccount[accountID] {
		if p == patientID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ActiveEdgesForSubject(_ context.Context, subject string) ([]Edge, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.edgesBySubject[subject], nil
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *httpx.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *httpx.Error, got %T: %v", err, err)
	}
	return appErr.Status
}

func TestResolve_OwnerHasAllCapabilities(t *testing.T) {
	account := uuid.New()
	patient := uuid.New()
	store := &fakeStore{
		accountsBySubject: map[string]uuid.UUID{"alice": account},
		patientsByAccount: map[uuid.UUID][]uuid.UUID{account: {patient}},
	}
	r := NewResolver(store)

	for _, cap := range []Capability{CapViewVitals, CapLogVitals, CapScheduleAppointments, CapManagePatients} {
		grant, err := r.Resolve(context.Background(), "alice", patient, cap)
		if err != nil {
			t.Fatalf("owner denied %s: %v", cap, err)
		}
		if grant.Role != RoleOwner {
			t.Errorf("expected owner role, got %s", grant.Role)
		}
		if grant.OwnerAccountID != account {
			t.Errorf("expected owner account %v, got %v", account, grant.OwnerAccountID)
		}
	}
}

func TestResolve_StrangerDeniedRegardlessOfCapability(t *testing.T) {
	account := uuid.New()
	patient := uuid.New()
	store := &fakeStore{
		accountsBySubject: map[string]uuid.UUID{"alice": account},
		patientsByAccount: map[uuid.UUID][]uuid.UUID{account: {patient}},
	}
	r := NewResolver(store)

	for _, cap := range []Capability{CapViewVitals, CapLogVitals, CapViewMedications, CapScheduleAppointments} {
		_, err := r.Resolve(context.Background(), "mallory", patient, cap)
		if err == nil {
			t.Fatalf("expected denial for stranger on %s", cap)
		}
		if got := statusOf(t, err); got != 403 {
			t.Errorf("expected 403 for stranger, got %d", got)
		}
	}
}

func TestResolve_MissingIdentity(t *testing.T) {
	r := NewResolver(&fakeStore{})
	_, err := r.Resolve(context.Background(), "", uuid.New(), CapViewVitals)
	if got := statusOf(t, err); got != 401 {
		t.Errorf("expected 401 for missing identity, got %d", got)
	}
}

func TestResolve_FamilyEdgeImplicitCapability(t *testing.T) {
	owner := uuid.New()
	patient := uuid.New()
	store := &fakeStore{
		accountsBySubject: map[string]uuid.UUID{},
		patientsByAccount: map[uuid.UUID][]uuid.UUID{owner: {patient}},
		edgesBySubject: map[string][]Edge{
			"carol": {{ID: uuid.New(), OwnerAccountID: owner, MemberSubject: "carol", Role: RoleFamily}},
		},
	}
	r := NewResolver(store)

	grant, err := r.Resolve(context.Background(), "carol", patient, CapViewVitals)
	if err != nil {
		t.Fatalf("family member denied viewVitals: %v", err)
	}
	if grant.OwnerAccountID != owner {
		t.Errorf("expected owner account %v, got %v", owner, grant.OwnerAccountID)
	}
	if grant.Role != RoleFamily {
		t.Errorf("expected family role, got %s", grant.Role)
	}

	// scheduleAppointments is not in the family implicit set and was not
	// granted on the edge.
	_, err = r.Resolve(context.Background(), "carol", patient, CapScheduleAppointments)
	if got := statusOf(t, err); got != 403 {
		t.Errorf("expected 403 without grant, got %d", got)
	}
}

func TestResolve_FamilyViewOnlyCannotLog(t *testing.T) {
	owner := uuid.New()
	patient := uuid.New()
	store := &fakeStore{
		patientsByAccount: map[uuid.UUID][]uuid.UUID{owner: {patient}},
		edgesBySubject: map[string][]Edge{
			"carol": {{
				OwnerAccountID: owner,
				MemberSubject:  "carol",
				Role:           RoleFamily,
				Grants:         []Capability{CapViewVitals},
			}},
		},
	}
	r := NewResolver(store)

	if _, err := r.Resolve(context.Background(), "carol", patient, CapViewVitals); err != nil {
		t.Fatalf("view-only family member denied viewVitals: %v", err)
	}

	_, err := r.Resolve(context.Background(), "carol", patient, CapLogVitals)
	if got := statusOf(t, err); got != 403 {
		t.Errorf("logVitals without a grant: expected 403, got %d", got)
	}

	// the same edge with logVitals granted may log
	store.edgesBySubject["carol"][0].Grants = []Capability{CapViewVitals, CapLogVitals}
	if _, err := r.Resolve(context.Background(), "carol", patient, CapLogVitals); err != nil {
		t.Errorf("granted logVitals still denied: %v", err)
	}
}

func TestResolve_PerEdgeGrantExtendsImplicitSet(t *testing.T) {
	owner := uuid.New()
	patient := uuid.New()
	store := &fakeStore{
		patientsByAccount: map[uuid.UUID][]uuid.UUID{owner: {patient}},
		edgesBySubject: map[string][]Edge{
			"carol": {{
				OwnerAccountID: owner,
				MemberSubject:  "carol",
				Role:           RoleFamily,
				Grants:         []Capability{CapScheduleAppointments},
			}},
		},
	}
	r := NewResolver(store)

	if _, err := r.Resolve(context.Background(), "carol", patient, CapScheduleAppointments); err != nil {
		t.Fatalf("granted capability denied: %v", err)
	}
}

func TestResolve_MultipleEdgesPicksAccountContainingPatient(t *testing.T) {
	householdA := uuid.New()
	householdB := uuid.New()
	patientInB := uuid.New()
	store := &fakeStore{
		patientsByAccount: map[uuid.UUID][]uuid.UUID{
			householdA: {uuid.New()},
			householdB: {patientInB},
		},
		edgesBySubject: map[string][]Edge{
			// Edge into household A comes first; the patient lives in B.
			"dana": {
				{OwnerAccountID: householdA, MemberSubject: "dana", Role: RoleCaregiver},
				{OwnerAccountID: householdB, MemberSubject: "dana", Role: RoleFamily},
			},
		},
	}
	r := NewResolver(store)

	grant, err := r.Resolve(context.Background(), "dana", patientInB, CapViewVitals)
	if err != nil {
		t.Fatalf("unexpected denial: %v", err)
	}
	if grant.OwnerAccountID != householdB {
		t.Errorf("expected resolution to household containing the patient (%v), got %v", householdB, grant.OwnerAccountID)
	}
	if grant.Role != RoleFamily {
		t.Errorf("expected the matching edge's role, got %s", grant.Role)
	}
}

func TestResolve_OwnerOfOtherAccountStillDeniedElsewhere(t *testing.T) {
	accountA := uuid.New()
	accountB := uuid.New()
	patientInB := uuid.New()
	store := &fakeStore{
		accountsBySubject: map[string]uuid.UUID{"alice": accountA},
		patientsByAccount: map[uuid.UUID][]uuid.UUID{
			accountA: {uuid.New()},
			accountB: {patientInB},
		},
	}
	r := NewResolver(store)

	_, err := r.Resolve(context.Background(), "alice", patientInB, CapViewVitals)
	if got := statusOf(t, err); got != 403 {
		t.Errorf("expected 403 for patient in another account, got %d", got)
	}
}

func TestResolve_StoreErrorBecomesInternal(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	r := NewResolver(store)
	_, err := r.Resolve(context.Background(), "alice", uuid.New(), CapViewVitals)
	if got := statusOf(t, err); got != 500 {
		t.Errorf("expected 500 on store error, got %d", got)
	}
}

func TestAllowed_Table(t *testing.T) {
	tests := []struct {
		name    string
		role    Role
		granted []Capability
		cap     Capability
		want    bool
	}{
		{"owner always", RoleOwner, nil, CapScheduleAppointments, true},
		{"family implicit view", RoleFamily, nil, CapViewVitals, true},
		{"family no implicit log", RoleFamily, nil, CapLogVitals, false},
		{"family granted log", RoleFamily, []Capability{CapLogVitals}, CapLogVitals, true},
		{"family no schedule", RoleFamily, nil, CapScheduleAppointments, false},
		{"caregiver implicit log", RoleCaregiver, nil, CapLogVitals, true},
		{"family granted schedule", RoleFamily, []Capability{CapScheduleAppointments}, CapScheduleAppointments, true},
		{"caregiver implicit schedule", RoleCaregiver, nil, CapScheduleAppointments, true},
		{"caregiver no manage", RoleCaregiver, nil, CapManagePatients, false},
		{"unknown role denied", Role("visitor"), nil, CapViewVitals, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allowed(tt.role, tt.granted, tt.cap); got != tt.want {
				t.Errorf("Allowed(%s, %v, %s) = %v, want %v", tt.role, tt.granted, tt.cap, got, tt.want)
			}
		})
	}
}
