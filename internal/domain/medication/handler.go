package medication

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/wellnest/wellnest/internal/platform/auth"
	"github.com/wellnest/wellnest/internal/platform/httpx"
	"github.com/wellnest/wellnest/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients/:id/medications", h.List)
	api.POST("/patients/:id/medications", h.Create)
	api.PUT("/patients/:id/medications/:medId", h.Update)
	api.GET("/patients/:id/medications/:medId/doses", h.ListDoses)
	api.POST("/patients/:id/medications/:medId/doses", h.LogDose)
	api.GET("/patients/:id/medications/:medId/adherence", h.Adherence)
}

func (h *Handler) Create(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Invalid("invalid patient id", nil)
	}
	var m Medication
	if err := c.Bind(&m); err != nil {
		return httpx.Invalid("invalid request body", nil)
	}
	m.PatientID = patientID
	subject := auth.SubjectFromContext(c.Request().Context())
	if err := h.svc.Create(c.Request().Context(), subject, &m); err != nil {
		return err
	}
	return httpx.OK(c, http.StatusCreated, m)
}

func (h *Handler) Update(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Invalid("invalid patient id", nil)
	}
	medID, err := uuid.Parse(c.Param("medId"))
	if err != nil {
		return httpx.Invalid("invalid medication id", nil)
	}
	var m Medication
	if err := c.Bind(&m); err != nil {
		return httpx.Invalid("invalid request body", nil)
	}
	subject := auth.SubjectFromContext(c.Request().Context())
	updated, err := h.svc.Update(c.Request().Context(), subject, patientID, medID, &m)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, updated)
}

func (h *Handler) List(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Invalid("invalid patient id", nil)
	}
	pg := pagination.FromContext(c)
	activeOnly := c.QueryParam("active") == "true"
	subject := auth.SubjectFromContext(c.Request().Context())
	items, total, err := h.svc.List(c.Request().Context(), subject, patientID, activeOnly, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

type logDoseRequest struct {
	TakenAt time.Time `json:"taken_at"`
}

func (h *Handler) LogDose(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Invalid("invalid patient id", nil)
	}
	medID, err := uuid.Parse(c.Param("medId"))
	if err != nil {
		return httpx.Invalid("invalid medication id", nil)
	}
	var req logDoseRequest
	if err := c.Bind(&req); err != nil {
		return httpx.Invalid("invalid request body", nil)
	}
	subject := auth.SubjectFromContext(c.Request().Context())
	d, err := h.svc.LogDose(c.Request().Context(), subject, patientID, medID, req.TakenAt)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusCreated, d)
}

func (h *Handler) ListDoses(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Invalid("invalid patient id", nil)
	}
	medID, err := uuid.Parse(c.Param("medId"))
	if err != nil {
		return httpx.Invalid("invalid medication id", nil)
	}
	pg := pagination.FromContext(c)
	subject := auth.SubjectFromContext(c.Request().Context())
	items, total, err := h.svc.ListDoses(c.Request().Context(), subject, patientID, medID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Adherence(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Invalid("invalid patient id", nil)
	}
	medID, err := uuid.Parse(c.Param("medId"))
	if err != nil {
		return httpx.Invalid("invalid medication id", nil)
	}
	days, _ := strconv.Atoi(c.QueryParam("days"))
	subject := auth.SubjectFromContext(c.Request().Context())
	a, err := h.svc.ComputeAdherence(c.Request().Context(), subject, patientID, medID, days)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, a)
}
