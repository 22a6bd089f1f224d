package refset

import (
	"context"
	"strconv"

	"github.com/refset/refset/internal/platform/api"
	"github.com/refset/refset/internal/platform/search"
)

const EntityName = "refset"

var Filterable = []string{"refsetId", "type", "edition.shortName", "moduleId", "active"}

var fields = search.MustReflect[*Refset](
	"name", "type", "edition.shortName", "edition.name", "versionDate", "memberCount", "createdAt",
).
	Add("refsetId", search.KindEnum, func(r *Refset) any { return r.RefsetID }).
	Add("moduleId", search.KindEnum, func(r *Refset) any {
		if r.ModuleID == "" {
			return nil
		}
		return r.ModuleID
	}).
	Add("active", search.KindEnum, func(r *Refset) any { return strconv.FormatBool(r.Active) })

func NewEntity(repo Repository) *search.Entity[*Refset] {
	return &search.Entity[*Refset]{
		Descriptor: search.Descriptor{
			Name:     EntityName,
			Table:    "refset_search",
			IDColumn: "id",
			Columns: map[string]string{
				"refsetId":          "refset_id",
				"name":              "name",
				"type":              "type",
				"edition.shortName": "edition_short_name",
				"edition.name":      "edition_name",
				"moduleId":          "module_id",
				"versionDate":       "version_date",
				"memberCount":       "member_count",
				"active":            "active::text",
				"createdAt":         "created_at",
			},
			TextColumns: []string{"refset_id", "name", "edition_name"},
		},
		Fields: fields,
		ID:     func(r *Refset) string { return r.ID.String() },
		Load: func(ctx context.Context, ids []string) ([]*Refset, error) {
			return repo.GetByIDs(ctx, api.ParseIDs(ids))
		},
	}
}
