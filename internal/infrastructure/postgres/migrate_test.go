package postgres

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Lo consumido y las sub-unidades se guardan sin escala: una reversión devuelve exactamente
// lo que la asignación descontó del bulto.
func TestMigrations_CantidadesConsumidasSinEscala(t *testing.T) {
	sql, err := migrationsFS.ReadFile("migrations/00001_insumos.sql")
	require.NoError(t, err)

	re := regexp.MustCompile(`(?m)^\s*(quantity_used|units_available)\s+NUMERIC(\s*\([^)]*\))?`)
	matches := re.FindAllStringSubmatch(string(sql), -1)
	require.Len(t, matches, 3, "production_registros, registro_allocations y lots")
	for _, m := range matches {
		assert.Empty(t, m[2], "%s no debe tener escala fija", m[1])
	}
}
