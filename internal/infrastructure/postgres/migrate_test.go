package postgres

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-unidades/migrations"
)

func TestMigrationNames_Orden(t *testing.T) {
	files := fstest.MapFS{
		"002_indices.sql": {Data: []byte("SELECT 1")},
		"001_base.sql":    {Data: []byte("SELECT 1")},
		"LEEME.md":        {Data: []byte("#")},
	}
	names, err := migrationNames(files)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_base.sql", "002_indices.sql"}, names)
}

func TestMigrationNames_Embebidas(t *testing.T) {
	names, err := migrationNames(migrations.Files)
	require.NoError(t, err)
	assert.Contains(t, names, "001_inventario_unidades.sql")
}
