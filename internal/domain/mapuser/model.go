package mapuser

import (
	"time"

	"github.com/google/uuid"
)

// Role is the application role of a map user.
type Role string

const (
	RoleViewer        Role = "VIEWER"
	RoleAuthor        Role = "AUTHOR"
	RoleReviewer      Role = "REVIEWER"
	RoleLead          Role = "LEAD"
	RoleAdministrator Role = "ADMINISTRATOR"
)

var validRoles = map[Role]bool{
	RoleViewer: true, RoleAuthor: true, RoleReviewer: true, RoleLead: true, RoleAdministrator: true,
}

func (r Role) Valid() bool { return validRoles[r] }

// MapUser is a person working on projects.
type MapUser struct {
	ID        uuid.UUID `json:"id"`
	UserName  string    `json:"user_name"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
