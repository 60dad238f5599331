package billing

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wellnest/wellnest/internal/platform/auth"
	"github.com/wellnest/wellnest/internal/platform/httpx"
)

// WebhookSecretHeader carries the shared secret on provider callbacks.
const WebhookSecretHeader = "X-Webhook-Secret"

type Handler struct {
	svc    *Service
	secret string
}

func NewHandler(svc *Service, webhookSecret string) *Handler {
	return &Handler{svc: svc, secret: webhookSecret}
}

// RegisterRoutes mounts the authenticated subscription view on the API
// group and the webhook on the unauthenticated group; the webhook is
// guarded by the shared secret instead of a bearer token.
func (h *Handler) RegisterRoutes(api, hooks *echo.Group) {
	api.GET("/subscription", h.GetSubscription)
	hooks.POST("/billing", h.Webhook)
}

func (h *Handler) GetSubscription(c echo.Context) error {
	subject := auth.SubjectFromContext(c.Request().Context())
	sub, err := h.svc.Current(c.Request().Context(), subject)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, sub)
}

func (h *Handler) Webhook(c echo.Context) error {
	if h.secret == "" {
		return httpx.Unauthorized("webhook secret not configured")
	}
	given := c.Request().Header.Get(WebhookSecretHeader)
	if subtle.ConstantTimeCompare([]byte(given), []byte(h.secret)) != 1 {
		return httpx.Unauthorized("invalid webhook secret")
	}

	var ev WebhookEvent
	if err := c.Bind(&ev); err != nil {
		return httpx.Invalid("invalid webhook payload", nil)
	}
	if err := h.svc.HandleWebhookEvent(c.Request().Context(), &ev); err != nil {
		return err
	}
	return httpx.NoContent(c)
}
