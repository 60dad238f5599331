package patient

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
	api.GET("/patients", h.List)
	api.POST("/patients", h.Create)
	api.GET("/patients/:id", h.Get)
	api.PUT("/patients/:id", h.Update)
	api.DELETE("/patients/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return httpx.Invalid("invalid request body", nil)
	}
	subject := auth.SubjectFromContext(c.Request().Context())
	if err := h.svc.Create(c.Request().Context(), subject, &p); err != nil {
		return err
	}
	return httpx.OK(c, http.StatusCreated, p)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Invalid("invalid id", nil)
	}
	subject := auth.SubjectFromContext(c.Request().Context())
	p, err := h.svc.Get(c.Request().Context(), subject, id)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, p)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Invalid("invalid id", nil)
	}
	var p Patient
	if err := c.Bind(&p); err != nil {
		return httpx.Invalid("invalid request body", nil)
	}
	subject := auth.SubjectFromContext(c.Request().Context())
	updated, err := h.svc.Update(c.Request().Context(), subject, id, &p)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, updated)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Invalid("invalid id", nil)
	}
	subject := auth.SubjectFromContext(c.Request().Context())
	if err := h.svc.Delete(c.Request().Context(), subject, id); err != nil {
		return err
	}
	return httpx.NoContent(c)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	subject := auth.SubjectFromContext(c.Request().Context())
	items, total, err := h.svc.List(c.Request().Context(), subject, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
