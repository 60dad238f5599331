package vitals

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/wellnest/wellnest/internal/platform/access"
	"github.com/wellnest/wellnest/internal/platform/auth"
	"github.com/wellnest/wellnest/internal/platform/httpx"
	"github.com/wellnest/wellnest/internal/platform/middleware"
)

// edgeStore is an access.Store with family-member edges, for routing tests
// that cross the owner/family boundary.
type edgeStore struct {
	accounts map[string]uuid.UUID
	patients map[uuid.UUID][]uuid.UUID
	edges    map[string][]access.Edge
}

func (s *edgeStore) AccountIDBySubject(_ context.Context, subject string) (uuid.UUID, error) {
	return s.accounts[subject], nil
}

func (s *edgeStore) PatientInAccount(_ context.Context, patientID, accountID uuid.UUID) (bool, error) {
	for _, p := range s.patients[accountID] {
		if p == patientID {
			return true, nil
		}
	}
	return false, nil
}

func (s *edgeStore) ActiveEdgesForSubject(_ context.Context, subject string) ([]access.Edge, error) {
	return s.edges[subject], nil
}

func newRouter(store access.Store, extra ...echo.MiddlewareFunc) (*echo.Echo, *mockRepo) {
	e := echo.New()
	e.HTTPErrorHandler = httpx.ErrorHandler(zerolog.Nop(), false)
	repo := &mockRepo{}
	h := NewHandler(NewService(repo, access.NewResolver(store)))
	mw := append([]echo.MiddlewareFunc{auth.DevAuthMiddleware()}, extra...)
	api := e.Group("/api/v1", mw...)
	h.RegisterRoutes(api)
	return e, repo
}

func do(e *echo.Echo, method, path, body, subject string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if subject != "" {
		req.Header.Set("X-Dev-Subject", subject)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func envelope(t *testing.T, rec *httptest.ResponseRecorder) httpx.Envelope {
	t.Helper()
	var env httpx.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding envelope: %v (body %q)", err, rec.Body.String())
	}
	return env
}

func TestHandlerOwnerLogsAndLists(t *testing.T) {
	account := uuid.New()
	patient := uuid.New()
	store := &edgeStore{
		accounts: map[string]uuid.UUID{"alice": account},
		patients: map[uuid.UUID][]uuid.UUID{account: {patient}},
	}
	e, _ := newRouter(store)

	rec := do(e, http.MethodPost, "/api/v1/patients/"+patient.String()+"/vitals",
		`{"type":"weight","value":180.5,"recorded_at":"2026-03-14T09:00:00Z"}`, "alice")
	if rec.Code != http.StatusCreated {
		t.Fatalf("owner log: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	env := envelope(t, rec)
	if !env.Success || env.Data == nil {
		t.Errorf("expected success envelope with data, got %+v", env)
	}

	rec = do(e, http.MethodGet, "/api/v1/patients/"+patient.String()+"/vitals", "", "alice")
	if rec.Code != http.StatusOK {
		t.Fatalf("owner list: expected 200, got %d", rec.Code)
	}
	if env := envelope(t, rec); !env.Success {
		t.Errorf("expected success envelope, got %+v", env)
	}
}

func TestHandlerStrangerForbidden(t *testing.T) {
	account := uuid.New()
	patient := uuid.New()
	store := &edgeStore{
		accounts: map[string]uuid.UUID{"alice": account},
		patients: map[uuid.UUID][]uuid.UUID{account: {patient}},
	}
	e, _ := newRouter(store)

	rec := do(e, http.MethodGet, "/api/v1/patients/"+patient.String()+"/vitals", "", "mallory")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("stranger list: expected 403, got %d", rec.Code)
	}
	env := envelope(t, rec)
	if env.Success || env.Error == "" {
		t.Errorf("expected error envelope, got %+v", env)
	}
}

// A family member holding viewVitals only may read but not write; adding
// logVitals to the edge lifts the refusal.
func TestHandlerFamilyViewOnlyReadsButCannotLog(t *testing.T) {
	account := uuid.New()
	patient := uuid.New()
	store := &edgeStore{
		accounts: map[string]uuid.UUID{"alice": account},
		patients: map[uuid.UUID][]uuid.UUID{account: {patient}},
		edges: map[string][]access.Edge{
			"carol": {{
				OwnerAccountID: account,
				MemberSubject:  "carol",
				Role:           access.RoleFamily,
				Grants:         []access.Capability{access.CapViewVitals},
			}},
		},
	}
	e, _ := newRouter(store)
	path := "/api/v1/patients/" + patient.String() + "/vitals"

	if rec := do(e, http.MethodGet, path, "", "carol"); rec.Code != http.StatusOK {
		t.Fatalf("family view: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	body := `{"type":"heart_rate","value":72}`
	rec := do(e, http.MethodPost, path, body, "carol")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("family log without grant: expected 403, got %d", rec.Code)
	}
	if env := envelope(t, rec); env.Success {
		t.Errorf("expected error envelope, got %+v", env)
	}

	store.edges["carol"][0].Grants = []access.Capability{access.CapViewVitals, access.CapLogVitals}
	if rec := do(e, http.MethodPost, path, body, "carol"); rec.Code != http.StatusCreated {
		t.Errorf("family log with grant: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestHandlerInvalidPatientID(t *testing.T) {
	e, _ := newRouter(&edgeStore{})

	rec := do(e, http.MethodGet, "/api/v1/patients/not-a-uuid/vitals", "", "alice")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env := envelope(t, rec); env.Success || env.Error == "" {
		t.Errorf("expected error envelope, got %+v", env)
	}
}

func TestHandlerRateLimitSetsRetryAfter(t *testing.T) {
	account := uuid.New()
	patient := uuid.New()
	store := &edgeStore{
		accounts: map[string]uuid.UUID{"alice": account},
		patients: map[uuid.UUID][]uuid.UUID{account: {patient}},
	}
	e, _ := newRouter(store, middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: 1,
		BurstSize:         1,
	}))
	path := "/api/v1/patients/" + patient.String() + "/vitals"

	if rec := do(e, http.MethodGet, path, "", "alice"); rec.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", rec.Code)
	}
	rec := do(e, http.MethodGet, path, "", "alice")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("429 response missing Retry-After header")
	}
	if env := envelope(t, rec); env.Success {
		t.Errorf("expected error envelope, got %+v", env)
	}
}
