package scheduling

import (
	"net/http"

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
	api.GET("/patients/:id/appointments", h.List)
	api.POST("/patients/:id/appointments", h.Create)
	api.GET("/patients/:id/appointments/:apptId", h.Get)
	api.PUT("/patients/:id/appointments/:apptId", h.Update)
	api.PATCH("/patients/:id/appointments/:apptId/status", h.UpdateStatus)
}

func (h *Handler) Create(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Invalid("invalid patient id", nil)
	}
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return httpx.Invalid("invalid request body", nil)
	}
	a.PatientID = patientID
	subject := auth.SubjectFromContext(c.Request().Context())
	if err := h.svc.Create(c.Request().Context(), subject, &a); err != nil {
		return err
	}
	return httpx.OK(c, http.StatusCreated, a)
}

func (h *Handler) Get(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Invalid("invalid patient id", nil)
	}
	apptID, err := uuid.Parse(c.Param("apptId"))
	if err != nil {
		return httpx.Invalid("invalid appointment id", nil)
	}
	subject := auth.SubjectFromContext(c.Request().Context())
	a, err := h.svc.Get(c.Request().Context(), subject, patientID, apptID)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, a)
}

func (h *Handler) Update(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Invalid("invalid patient id", nil)
	}
	apptID, err := uuid.Parse(c.Param("apptId"))
	if err != nil {
		return httpx.Invalid("invalid appointment id", nil)
	}
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return httpx.Invalid("invalid request body", nil)
	}
	subject := auth.SubjectFromContext(c.Request().Context())
	updated, err := h.svc.Update(c.Request().Context(), subject, patientID, apptID, &a)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, updated)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Invalid("invalid patient id", nil)
	}
	apptID, err := uuid.Parse(c.Param("apptId"))
	if err != nil {
		return httpx.Invalid("invalid appointment id", nil)
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return httpx.Invalid("invalid request body", nil)
	}
	subject := auth.SubjectFromContext(c.Request().Context())
	a, err := h.svc.UpdateStatus(c.Request().Context(), subject, patientID, apptID, req.Status)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, a)
}

func (h *Handler) List(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Invalid("invalid patient id", nil)
	}
	pg := pagination.FromContext(c)
	subject := auth.SubjectFromContext(c.Request().Context())
	items, total, err := h.svc.List(c.Request().Context(), subject, patientID, c.QueryParam("status"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
