package notification

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wellnest/wellnest/internal/platform/httpx"
)

// CronSecretHeader authenticates scheduler callbacks.
const CronSecretHeader = "X-Cron-Secret"

type Handler struct {
	notifier *Notifier
	secret   string
}

func NewHandler(notifier *Notifier, cronSecret string) *Handler {
	return &Handler{notifier: notifier, secret: cronSecret}
}

// RegisterRoutes mounts the cron endpoint on the unauthenticated group;
// the shared secret stands in for a bearer token.
func (h *Handler) RegisterRoutes(cron *echo.Group) {
	cron.POST("/notifications", h.Run)
}

func (h *Handler) Run(c echo.Context) error {
	if h.secret == "" {
		return httpx.Unauthorized("cron secret not configured")
	}
	given := c.Request().Header.Get(CronSecretHeader)
	if subtle.ConstantTimeCompare([]byte(given), []byte(h.secret)) != 1 {
		return httpx.Unauthorized("invalid cron secret")
	}

	res, err := h.notifier.Run(c.Request().Context())
	if err != nil {
		return httpx.Internal(err)
	}
	return httpx.OK(c, http.StatusOK, res)
}
