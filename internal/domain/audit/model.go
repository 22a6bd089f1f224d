package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/refset/refset/internal/platform/middleware"
)

// Entry is one recorded API access.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	UserName   string    `json:"user_name,omitempty"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id,omitempty"`
	Query      string    `json:"query,omitempty"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	IPAddress  string    `json:"ip_address,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	StatusCode int       `json:"status_code"`
	Timestamp  time.Time `json:"timestamp"`
}

func fromAccess(a middleware.AuditEntry) *Entry {
	return &Entry{
		UserName:   a.UserName,
		Action:     a.Action,
		EntityType: a.EntityType,
		EntityID:   a.EntityID,
		Query:      a.Query,
		Method:     a.Method,
		Path:       a.Path,
		IPAddress:  a.IPAddress,
		RequestID:  a.RequestID,
		StatusCode: a.StatusCode,
		Timestamp:  a.Timestamp,
	}
}

// Filter narrows a listing. Zero values match everything.
type Filter struct {
	UserName   string
	EntityType string
	Action     string
	Since      time.Time
}
