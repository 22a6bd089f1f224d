package edition

import (
	"time"

	"github.com/google/uuid"
)

// DefaultLocale is used when an edition does not name one.
const DefaultLocale = "en"

// Edition is a terminology release line maps and refsets are built against.
type Edition struct {
	ID            uuid.UUID `json:"id"`
	ShortName     string    `json:"short_name"`
	Name          string    `json:"name"`
	Namespace     string    `json:"namespace,omitempty"`
	Organization  string    `json:"organization,omitempty"`
	DefaultLocale string    `json:"default_locale"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
