package refset

import (
	"time"

	"github.com/google/uuid"
)

// Type is the refset pattern.
type Type string

const (
	TypeSimple         Type = "SIMPLE"
	TypeAttributeValue Type = "ATTRIBUTE_VALUE"
	TypeAssociation    Type = "ASSOCIATION"
	TypeComplexMap     Type = "COMPLEX_MAP"
	TypeExtendedMap    Type = "EXTENDED_MAP"
)

var validTypes = map[Type]bool{
	TypeSimple: true, TypeAttributeValue: true, TypeAssociation: true, TypeComplexMap: true, TypeExtendedMap: true,
}

func (t Type) Valid() bool { return validTypes[t] }

// EditionRef is the edition summary carried on a refset.
type EditionRef struct {
	ShortName string `json:"short_name"`
	Name      string `json:"name"`
}

// Refset is a reference set definition and its membership summary.
type Refset struct {
	ID          uuid.UUID   `json:"id"`
	RefsetID    string      `json:"refset_id"`
	Name        string      `json:"name"`
	Type        Type        `json:"type"`
	EditionID   uuid.UUID   `json:"edition_id"`
	Edition     *EditionRef `json:"edition,omitempty"`
	ModuleID    string      `json:"module_id,omitempty"`
	VersionDate *time.Time  `json:"version_date,omitempty"`
	MemberCount int         `json:"member_count"`
	Active      bool        `json:"active"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
