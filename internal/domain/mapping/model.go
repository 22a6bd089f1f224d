package mapping

import (
	"time"

	"github.com/google/uuid"
)

// Relationship qualifies how a target relates to its source concept.
type Relationship string

const (
	RelEquivalent Relationship = "EQUIVALENT"
	RelBroader    Relationship = "BROADER"
	RelNarrower   Relationship = "NARROWER"
	RelRelated    Relationship = "RELATED"
	RelNoMatch    Relationship = "NO_MATCH"
)

var validRelationships = map[Relationship]bool{
	RelEquivalent: true, RelBroader: true, RelNarrower: true, RelRelated: true, RelNoMatch: true,
}

func (r Relationship) Valid() bool { return validRelationships[r] }

// Status is the workflow state of a mapping.
type Status string

const (
	StatusNew                 Status = "NEW"
	StatusEditing             Status = "EDITING"
	StatusReviewNeeded        Status = "REVIEW_NEEDED"
	StatusReadyForPublication Status = "READY_FOR_PUBLICATION"
	StatusPublished           Status = "PUBLISHED"
)

// transitions lists the states reachable from each state.
var transitions = map[Status][]Status{
	StatusNew:                 {StatusEditing},
	StatusEditing:             {StatusReviewNeeded},
	StatusReviewNeeded:        {StatusEditing, StatusReadyForPublication},
	StatusReadyForPublication: {StatusPublished, StatusEditing},
	StatusPublished:           {StatusEditing},
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Concept is a coded concept on either side of a mapping.
type Concept struct {
	Code    string `json:"code"`
	Display string `json:"display,omitempty"`
}

// Mapping relates one source concept to a target within a project.
type Mapping struct {
	ID           uuid.UUID    `json:"id"`
	ProjectID    uuid.UUID    `json:"project_id"`
	Source       Concept      `json:"source"`
	Target       *Concept     `json:"target,omitempty"`
	Relationship Relationship `json:"relationship"`
	Status       Status       `json:"status"`
	Author       string       `json:"author,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
