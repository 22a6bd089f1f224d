package migrations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refset/refset/internal/platform/db"
)

func TestFilesLoad(t *testing.T) {
	migs, err := db.NewMigrator(nil, Files, "").LoadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	assert.Equal(t, 1, migs[0].Version)

	for _, table := range []string{"edition", "project", "map_user", "refset", "mapping", "audit_entry"} {
		assert.True(t, strings.Contains(migs[0].SQL, "CREATE TABLE IF NOT EXISTS "+table+" ("), table)
	}
	for _, view := range []string{"project_search", "refset_search"} {
		assert.Contains(t, migs[0].SQL, "CREATE OR REPLACE VIEW "+view)
	}
}
