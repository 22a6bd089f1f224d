package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// UserHeader carries the acting user name. Authentication happens upstream.
const UserHeader = "X-User"

const apiPrefix = "/api/v1/"

// AuditEntry describes one API access.
type AuditEntry struct {
	UserName   string
	Action     string // read, search, create, update, delete
	EntityType string
	EntityID   string
	Query      string
	Method     string
	Path       string
	IPAddress  string
	RequestID  string
	StatusCode int
	Timestamp  time.Time
}

// AuditRecorder persists audit entries.
type AuditRecorder interface {
	RecordAccess(ctx context.Context, entry AuditEntry) error
}

// AuditRecorderFunc is a function adapter for AuditRecorder.
type AuditRecorderFunc func(ctx context.Context, entry AuditEntry) error

func (f AuditRecorderFunc) RecordAccess(ctx context.Context, entry AuditEntry) error {
	return f(ctx, entry)
}

// Audit records every /api/v1/ request after it completes. Recorder failures
// are logged and never fail the request. The audit listing itself is not
// audited.
func Audit(logger zerolog.Logger, recorders ...AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path
			if !isAuditablePath(path) {
				return next(c)
			}

			err := next(c)

			entity, id := splitEntityPath(path)
			entry := AuditEntry{
				UserName:   req.Header.Get(UserHeader),
				Action:     httpMethodToAction(req.Method, id),
				EntityType: entity,
				EntityID:   id,
				Query:      req.URL.Query().Get("query"),
				Method:     req.Method,
				Path:       path,
				IPAddress:  c.RealIP(),
				StatusCode: c.Response().Status,
				Timestamp:  time.Now().UTC(),
			}
			if he, ok := err.(*echo.HTTPError); ok {
				entry.StatusCode = he.Code
			}
			if rid, ok := c.Get("request_id").(string); ok {
				entry.RequestID = rid
			}

			for _, r := range recorders {
				if r == nil {
					continue
				}
				if recErr := r.RecordAccess(context.WithoutCancel(req.Context()), entry); recErr != nil {
					logger.Error().Err(recErr).
						Str("request_id", entry.RequestID).
						Msg("failed to record audit entry")
				}
			}

			logger.Info().
				Str("type", "audit").
				Str("request_id", entry.RequestID).
				Str("user", entry.UserName).
				Str("action", entry.Action).
				Str("entity_type", entry.EntityType).
				Str("entity_id", entry.EntityID).
				Int("status", entry.StatusCode).
				Msg("api_access")

			return err
		}
	}
}

func isAuditablePath(path string) bool {
	return strings.HasPrefix(path, apiPrefix) && !strings.HasPrefix(path, apiPrefix+"audit")
}

// httpMethodToAction maps a method to an audit action. Collection GETs and
// the _ids, _total and _single views count as searches.
func httpMethodToAction(method, id string) string {
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	}
	if id == "" || strings.HasPrefix(id, "_") {
		return "search"
	}
	return "read"
}

// splitEntityPath returns the collection and id segments of an API path:
// /api/v1/refsets/123 -> refsets, 123.
func splitEntityPath(path string) (entity, id string) {
	segments := strings.Split(strings.Trim(strings.TrimPrefix(path, apiPrefix), "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return "unknown", ""
	}
	entity = segments[0]
	if len(segments) > 1 {
		id = segments[1]
	}
	return entity, id
}
