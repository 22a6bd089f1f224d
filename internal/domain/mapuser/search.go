package mapuser

import (
	"context"

	"github.com/refset/refset/internal/platform/api"
	"github.com/refset/refset/internal/platform/search"
)

const EntityName = "mapuser"

var Filterable = []string{"userName", "role"}

// userName is matched exactly, so it is indexed as a keyword.
var fields = search.MustReflect[*MapUser]("name", "email", "role", "createdAt").
	Add("userName", search.KindEnum, func(u *MapUser) any { return u.UserName })

func NewEntity(repo Repository) *search.Entity[*MapUser] {
	return &search.Entity[*MapUser]{
		Descriptor: search.Descriptor{
			Name:     EntityName,
			Table:    "map_user",
			IDColumn: "id",
			Columns: map[string]string{
				"userName":  "user_name",
				"name":      "name",
				"email":     "email",
				"role":      "role",
				"createdAt": "created_at",
			},
			TextColumns: []string{"user_name", "name", "email"},
		},
		Fields: fields,
		ID:     func(u *MapUser) string { return u.ID.String() },
		Load: func(ctx context.Context, ids []string) ([]*MapUser, error) {
			return repo.GetByIDs(ctx, api.ParseIDs(ids))
		},
	}
}
