package project

import (
	"time"

	"github.com/google/uuid"
)

// Privacy controls who may browse a project.
type Privacy string

const (
	PrivacyPublic  Privacy = "PUBLIC"
	PrivacyPrivate Privacy = "PRIVATE"
)

func (p Privacy) Valid() bool {
	return p == PrivacyPublic || p == PrivacyPrivate
}

// EditionRef is the edition summary carried on a project.
type EditionRef struct {
	ShortName string `json:"short_name"`
	Name      string `json:"name"`
}

// Project groups mapping work against one edition.
type Project struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	EditionID   uuid.UUID   `json:"edition_id"`
	Edition     *EditionRef `json:"edition,omitempty"`
	Privacy     Privacy     `json:"privacy"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
