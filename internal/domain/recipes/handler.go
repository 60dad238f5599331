package recipes

import (
	"net/http"
	"strconv"

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
	api.GET("/recipes", h.List)
	api.POST("/recipes", h.Create)
	api.PUT("/recipes/:id", h.Update)
	api.DELETE("/recipes/:id", h.Delete)
	api.GET("/recipes/match", h.Match)
}

func (h *Handler) Create(c echo.Context) error {
	var r Recipe
	if err := c.Bind(&r); err != nil {
		return httpx.Invalid("invalid request body", nil)
	}
	subject := auth.SubjectFromContext(c.Request().Context())
	if err := h.svc.Create(c.Request().Context(), subject, &r); err != nil {
		return err
	}
	return httpx.OK(c, http.StatusCreated, r)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Invalid("invalid id", nil)
	}
	var r Recipe
	if err := c.Bind(&r); err != nil {
		return httpx.Invalid("invalid request body", nil)
	}
	subject := auth.SubjectFromContext(c.Request().Context())
	updated, err := h.svc.Update(c.Request().Context(), subject, id, &r)
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

func (h *Handler) Match(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	subject := auth.SubjectFromContext(c.Request().Context())
	results, err := h.svc.Match(c.Request().Context(), subject, limit)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, results)
}
