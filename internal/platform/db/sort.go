package db

import (
	"fmt"
	"strings"
)

// SortSpec represents a single sort directive.
type SortSpec struct {
	Field      string
	Descending bool
}

// ParseSort parses a sort parameter value.
// Format: "-name,edition.name" means name DESC, edition.name ASC.
func ParseSort(sortParam string) []SortSpec {
	if sortParam == "" {
		return nil
	}

	parts := strings.Split(sortParam, ",")
	specs := make([]SortSpec, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		spec := SortSpec{Field: part}
		if strings.HasPrefix(part, "-") {
			spec.Descending = true
			spec.Field = strings.TrimSpace(part[1:])
		}
		if spec.Field != "" {
			specs = append(specs, spec)
		}
	}

	return specs
}

// BuildOrderClause maps sort specs to columns. Nulls sort first ascending
// and last descending. Fields without a column are ignored and
// defaultOrder applies when nothing maps.
func BuildOrderClause(specs []SortSpec, fieldMap map[string]string, defaultOrder string) string {
	var parts []string
	for _, spec := range specs {
		col, ok := fieldMap[spec.Field]
		if !ok {
			continue
		}
		if spec.Descending {
			parts = append(parts, fmt.Sprintf("%s DESC NULLS LAST", col))
		} else {
			parts = append(parts, fmt.Sprintf("%s ASC NULLS FIRST", col))
		}
	}
	if len(parts) == 0 {
		return defaultOrder
	}
	return strings.Join(parts, ", ")
}
