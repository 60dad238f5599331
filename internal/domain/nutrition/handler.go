package nutrition

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
	api.GET("/patients/:id/meals", h.ListMeals)
	api.POST("/patients/:id/meals", h.LogMeals)
	api.GET("/patients/:id/weights", h.ListWeights)
	api.POST("/patients/:id/weights", h.LogWeight)
	api.GET("/patients/:id/projection", h.Projection)
}

func (h *Handler) LogMeals(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Invalid("invalid patient id", nil)
	}
	var m MealLog
	if err := c.Bind(&m); err != nil {
		return httpx.Invalid("invalid request body", nil)
	}
	m.PatientID = patientID
	subject := auth.SubjectFromContext(c.Request().Context())
	if err := h.svc.LogMeals(c.Request().Context(), subject, &m); err != nil {
		return err
	}
	return httpx.OK(c, http.StatusCreated, m)
}

func (h *Handler) ListMeals(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Invalid("invalid patient id", nil)
	}
	pg := pagination.FromContext(c)

	var from, to time.Time
	if s := c.QueryParam("from"); s != "" {
		from, err = time.Parse("2006-01-02", s)
		if err != nil {
			return httpx.Invalid("invalid from date", map[string]string{"from": "must be YYYY-MM-DD"})
		}
	}
	if s := c.QueryParam("to"); s != "" {
		to, err = time.Parse("2006-01-02", s)
		if err != nil {
			return httpx.Invalid("invalid to date", map[string]string{"to": "must be YYYY-MM-DD"})
		}
	}

	subject := auth.SubjectFromContext(c.Request().Context())
	items, total, err := h.svc.ListMeals(c.Request().Context(), subject, patientID, from, to, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) LogWeight(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Invalid("invalid patient id", nil)
	}
	var w WeightLog
	if err := c.Bind(&w); err != nil {
		return httpx.Invalid("invalid request body", nil)
	}
	w.PatientID = patientID
	subject := auth.SubjectFromContext(c.Request().Context())
	if err := h.svc.LogWeight(c.Request().Context(), subject, &w); err != nil {
		return err
	}
	return httpx.OK(c, http.StatusCreated, w)
}

func (h *Handler) ListWeights(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Invalid("invalid patient id", nil)
	}
	pg := pagination.FromContext(c)
	subject := auth.SubjectFromContext(c.Request().Context())
	items, total, err := h.svc.ListWeights(c.Request().Context(), subject, patientID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Projection(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Invalid("invalid patient id", nil)
	}
	subject := auth.SubjectFromContext(c.Request().Context())
	p, err := h.svc.ComputeProjection(c.Request().Context(), subject, patientID)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, p)
}
