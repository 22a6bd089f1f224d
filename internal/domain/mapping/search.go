package mapping

import (
	"context"

	"github.com/refset/refset/internal/platform/api"
	"github.com/refset/refset/internal/platform/search"
)

const EntityName = "mapping"

var Filterable = []string{"projectId", "source.code", "target.code", "relationship", "status", "author"}

// Codes are matched exactly, so they are indexed as keywords. A mapping
// without a target has null target paths.
var fields = search.MustReflect[*Mapping]("source.display", "target.display", "relationship", "status", "createdAt", "updatedAt").
	Add("projectId", search.KindEnum, func(m *Mapping) any { return m.ProjectID }).
	Add("source.code", search.KindEnum, func(m *Mapping) any { return m.Source.Code }).
	Add("target.code", search.KindEnum, func(m *Mapping) any {
		if m.Target == nil {
			return nil
		}
		return m.Target.Code
	}).
	Add("author", search.KindEnum, func(m *Mapping) any {
		if m.Author == "" {
			return nil
		}
		return m.Author
	})

func NewEntity(repo Repository) *search.Entity[*Mapping] {
	return &search.Entity[*Mapping]{
		Descriptor: search.Descriptor{
			Name:     EntityName,
			Table:    "mapping",
			IDColumn: "id",
			Columns: map[string]string{
				"projectId":      "project_id::text",
				"source.code":    "source_code",
				"source.display": "source_display",
				"target.code":    "target_code",
				"target.display": "target_display",
				"relationship":   "relationship",
				"status":         "status",
				"author":         "author",
				"createdAt":      "created_at",
				"updatedAt":      "updated_at",
			},
			TextColumns: []string{"source_code", "source_display", "target_code", "target_display"},
		},
		Fields: fields,
		ID:     func(m *Mapping) string { return m.ID.String() },
		Load: func(ctx context.Context, ids []string) ([]*Mapping, error) {
			return repo.GetByIDs(ctx, api.ParseIDs(ids))
		},
	}
}
