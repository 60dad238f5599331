package shopping

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
	api.GET("/shopping-items", h.List)
	api.POST("/shopping-items", h.Create)
	api.PUT("/shopping-items/:id", h.Update)
	api.DELETE("/shopping-items/:id", h.Delete)
	api.POST("/shopping-items/confirm", h.ConfirmPurchases)
}

func (h *Handler) Create(c echo.Context) error {
	var item ShoppingItem
	if err := c.Bind(&item); err != nil {
		return httpx.Invalid("invalid request body", nil)
	}
	subject := auth.SubjectFromContext(c.Request().Context())
	if err := h.svc.Create(c.Request().Context(), subject, &item); err != nil {
		return err
	}
	return httpx.OK(c, http.StatusCreated, item)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httpx.Invalid("invalid id", nil)
	}
	var item ShoppingItem
	if err := c.Bind(&item); err != nil {
		return httpx.Invalid("invalid request body", nil)
	}
	subject := auth.SubjectFromContext(c.Request().Context())
	updated, err := h.svc.Update(c.Request().Context(), subject, id, &item)
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
	neededOnly := c.QueryParam("needed") == "true"
	subject := auth.SubjectFromContext(c.Request().Context())
	items, total, err := h.svc.List(c.Request().Context(), subject, neededOnly, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

type confirmRequest struct {
	ItemIDs []uuid.UUID `json:"item_ids"`
}

func (h *Handler) ConfirmPurchases(c echo.Context) error {
	var req confirmRequest
	if err := c.Bind(&req); err != nil {
		return httpx.Invalid("invalid request body", nil)
	}
	subject := auth.SubjectFromContext(c.Request().Context())
	res, err := h.svc.ConfirmPurchases(c.Request().Context(), subject, req.ItemIDs)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, res)
}
