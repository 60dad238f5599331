package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Envelope is the uniform response shape for every API route.
type Envelope struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// OK writes a success envelope with the given status.
func OK(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Envelope{Success: true, Data: data})
}

// NoContent writes an empty success envelope.
func NoContent(c echo.Context) error {
	return c.JSON(http.StatusOK, Envelope{Success: true})
}

// ErrorHandler returns an echo HTTPErrorHandler that converts application
// errors into the response envelope. Unexpected errors become a generic
// 500; their detail is logged and, outside production, echoed in the body.
func ErrorHandler(logger zerolog.Logger, production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var appErr *Error
		if !errors.As(err, &appErr) {
			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				msg, _ := httpErr.Message.(string)
				if msg == "" {
					msg = http.StatusText(httpErr.Code)
				}
				appErr = &Error{Status: httpErr.Code, Kind: "http", Message: msg}
			} else {
				appErr = Internal(err)
			}
		}

		if appErr.Status >= http.StatusInternalServerError {
			rid, _ := c.Get("request_id").(string)
			logger.Error().
				Err(err).
				Str("request_id", rid).
				Str("path", c.Request().URL.Path).
				Msg("request failed")
		}

		msg := appErr.Message
		if appErr.Status >= http.StatusInternalServerError && production {
			msg = "internal server error"
		} else if appErr.Status >= http.StatusInternalServerError && appErr.err != nil {
			msg = appErr.err.Error()
		}

		if appErr.Status == http.StatusTooManyRequests {
			c.Response().Header().Set("Retry-After", strconv.Itoa(appErr.RetryAfter))
		}

		_ = c.JSON(appErr.Status, Envelope{Success: false, Error: msg, Fields: appErr.Fields})
	}
}
