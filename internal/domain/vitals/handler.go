package vitals

import (
	"net/http"
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
	api.GET("/patients/:id/vitals", h.List)
	api.POST("/patients/:id/vitals", h.Log)
	api.DELETE("/patients/:id/vitals/:vitalId", h.Delete)
}

func (h *Handler) Log(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Invalid("invalid patient id", nil)
	}
	var v VitalSign
	if err := c.Bind(&v); err != nil {
		return httpx.Invalid("invalid request body", nil)
	}
	v.PatientID = patientID
	subject := auth.SubjectFromContext(c.Request().Context())
	if err := h.svc.Log(c.Request().Context(), subject, &v); err != nil {
		return err
	}
	return httpx.OK(c, http.StatusCreated, v)
}

func (h *Handler) List(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Invalid("invalid patient id", nil)
	}
	pg := pagination.FromContext(c)

	var from, to time.Time
	if s := c.QueryParam("from"); s != "" {
		from, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return httpx.Invalid("invalid from timestamp", map[string]string{"from": "must be RFC3339"})
		}
	}
	if s := c.QueryParam("to"); s != "" {
		to, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return httpx.Invalid("invalid to timestamp", map[string]string{"to": "must be RFC3339"})
		}
	}

	subject := auth.SubjectFromContext(c.Request().Context())
	items, total, err := h.svc.List(c.Request().Context(), subject, patientID, c.QueryParam("type"), from, to, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Delete(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Invalid("invalid patient id", nil)
	}
	vitalID, err := uuid.Parse(c.Param("vitalId"))
	if err != nil {
		return httpx.Invalid("invalid vital id", nil)
	}
	subject := auth.SubjectFromContext(c.Request().Context())
	if err := h.svc.Delete(c.Request().Context(), subject, patientID, vitalID); err != nil {
		return err
	}
	return httpx.NoContent(c)
}
