package insumo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/insumos-api/internal/domain/insumo"
)

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Ñandú", "nandu"},
		{"  Leche   en Polvo ", "leche en polvo"},
		{"AZÚCAR\tRefinada", "azucar refinada"},
		{"", ""},
		{"Crème Brûlée", "creme brulee"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, insumo.Normalize(c.in), "Normalize(%q)", c.in)
	}
}

func TestNormalize_Idempotente(t *testing.T) {
	for _, s := range []string{"Ñandú", "Pimentón  Dulce", "ÁÉÍÓÚ ü", "sal"} {
		once := insumo.Normalize(s)
		assert.Equal(t, once, insumo.Normalize(once))
	}
}
