package project

import (
	"context"

	"github.com/refset/refset/internal/platform/api"
	"github.com/refset/refset/internal/platform/search"
)

// EntityName is the index type and the postgres search descriptor name.
const EntityName = "project"

// Filterable lists the query parameters accepted as fielded filters.
var Filterable = []string{"privacy", "edition.shortName"}

var fields = search.MustReflect[*Project](
	"name", "description", "privacy", "edition.shortName", "edition.name", "createdAt", "updatedAt",
)

// NewEntity describes projects to the search layer, loading hits from repo.
func NewEntity(repo Repository) *search.Entity[*Project] {
	return &search.Entity[*Project]{
		Descriptor: search.Descriptor{
			Name:     EntityName,
			Table:    "project_search",
			IDColumn: "id",
			Columns: map[string]string{
				"name":              "name",
				"description":       "description",
				"privacy":           "privacy",
				"edition.shortName": "edition_short_name",
				"edition.name":      "edition_name",
				"createdAt":         "created_at",
				"updatedAt":         "updated_at",
			},
			TextColumns: []string{"name", "description", "edition_name"},
		},
		Fields: fields,
		ID:     func(p *Project) string { return p.ID.String() },
		Load: func(ctx context.Context, ids []string) ([]*Project, error) {
			return repo.GetByIDs(ctx, api.ParseIDs(ids))
		},
	}
}
