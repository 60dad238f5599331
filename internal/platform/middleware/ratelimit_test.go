package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/wellnest/wellnest/internal/platform/httpx"
)

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 3})
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		if err := h(e.NewContext(req, rec)); err != nil {
			t.Fatalf("request %d within burst rejected: %v", i+1, err)
		}
	}
}

func TestRateLimit_ExceedingBurstGets429(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 2})
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	var lastErr error
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		lastErr = h(e.NewContext(req, rec))
	}

	var appErr *httpx.Error
	if !errors.As(lastErr, &appErr) {
		t.Fatalf("expected *httpx.Error on the third request, got %v", lastErr)
	}
	if appErr.Status != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", appErr.Status)
	}
	if appErr.RetryAfter < 0 {
		t.Errorf("Retry-After must be non-negative, got %d", appErr.RetryAfter)
	}
}

func TestRateLimit_SeparateKeysSeparateBudgets(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1})
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	send := func(ip string) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		return h(e.NewContext(req, rec))
	}

	if err := send("10.0.0.1"); err != nil {
		t.Fatalf("first caller's first request rejected: %v", err)
	}
	if err := send("10.0.0.1"); err == nil {
		t.Error("first caller's second request should exceed its budget")
	}
	if err := send("10.0.0.2"); err != nil {
		t.Errorf("second caller must have an independent budget: %v", err)
	}
}
