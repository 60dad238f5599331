package insights

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wellnest/wellnest/internal/platform/auth"
	"github.com/wellnest/wellnest/internal/platform/httpx"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/activity", h.Track)
	api.POST("/insights/engagement", h.Analyze)
}

type trackRequest struct {
	EventType string `json:"event_type"`
}

func (h *Handler) Track(c echo.Context) error {
	var req trackRequest
	if err := c.Bind(&req); err != nil {
		return httpx.Invalid("invalid request body", nil)
	}
	subject := auth.SubjectFromContext(c.Request().Context())
	if err := h.svc.Track(c.Request().Context(), subject, req.EventType); err != nil {
		return err
	}
	return httpx.OK(c, http.StatusCreated, nil)
}

func (h *Handler) Analyze(c echo.Context) error {
	subject := auth.SubjectFromContext(c.Request().Context())
	eng, err := h.svc.Analyze(c.Request().Context(), subject)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, eng)
}
