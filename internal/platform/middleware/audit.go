package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/wellnest/wellnest/internal/platform/auth"
)

// AuditEntry captures who accessed what, when, from where.
type AuditEntry struct {
	Subject    string
	Action     string // read, create, update, delete
	Path       string
	Method     string
	PatientID  string
	IPAddress  string
	RequestID  string
	StatusCode int
	Timestamp  time.Time
}

// AuditRecorder persists audit entries. Decoupled from the middleware so
// tests can provide a mock implementation.
type AuditRecorder interface {
	RecordAccess(entry AuditEntry) error
}

// AuditRecorderFunc is a function adapter for AuditRecorder.
type AuditRecorderFunc func(entry AuditEntry) error

func (f AuditRecorderFunc) RecordAccess(entry AuditEntry) error {
	return f(entry)
}

// Audit logs access to API routes that touch patient data. If no recorder
// is provided it falls back to structured zerolog logging.
func Audit(logger zerolog.Logger, recorders ...AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if !strings.HasPrefix(path, "/api/v1/") {
				return next(c)
			}

			err := next(c)

			rid, _ := c.Get("request_id").(string)
			entry := AuditEntry{
				Subject:    auth.SubjectFromContext(c.Request().Context()),
				Action:     actionForMethod(c.Request().Method),
				Path:       path,
				Method:     c.Request().Method,
				PatientID:  c.Param("id"),
				IPAddress:  c.RealIP(),
				RequestID:  rid,
				StatusCode: c.Response().Status,
				Timestamp:  time.Now().UTC(),
			}

			if len(recorders) > 0 {
				for _, r := range recorders {
					if recErr := r.RecordAccess(entry); recErr != nil {
						logger.Error().Err(recErr).Str("request_id", rid).Msg("audit record failed")
					}
				}
			} else {
				logger.Info().
					Str("subject", entry.Subject).
					Str("action", entry.Action).
					Str("path", entry.Path).
					Int("status", entry.StatusCode).
					Str("request_id", entry.RequestID).
					Msg("audit")
			}

			return err
		}
	}
}

func actionForMethod(method string) string {
	switch method {
	case "GET":
		return "read"
	case "POST":
		return "create"
	case "PUT", "PATCH":
		return "update"
	case "DELETE":
		return "delete"
	default:
		return strings.ToLower(method)
	}
}
