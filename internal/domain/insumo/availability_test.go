package insumo_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/insumos-api/internal/domain/insumo"
)

func TestAggregateMissing(t *testing.T) {
	ingredients := []insumo.IngredientCheck{
		{Name: "Leche", Needed: dec("10"), Available: dec("9.99"), Unit: "kg"},
		{Name: "Azúcar", Needed: dec("5"), Available: dec("5"), Unit: "kg"},
	}
	formats := []insumo.FormatCheck{
		{Name: "Caja", Needed: dec("10"), Available: dec("2"), Unit: "u", Sufficient: boolPtr(false)},
		{Name: "Cinta", Needed: dec("1"), Available: dec("0"), Unit: "u", Optional: true, Sufficient: boolPtr(false)},
		{Name: "Etiqueta", Needed: dec("10"), Available: dec("0"), Unit: "u"},
		{Name: "Tapa", Needed: dec("10"), Available: dec("20"), Unit: "u", Sufficient: boolPtr(true)},
	}

	missing := insumo.AggregateMissing(ingredients, formats)
	require.Len(t, missing, 2)
	assert.Equal(t, "Leche", missing[0].Name)
	assert.Equal(t, insumo.OriginIngredient, missing[0].Origin)
	assert.Equal(t, "Caja", missing[1].Name)
	assert.Equal(t, insumo.OriginFormat, missing[1].Origin)
}

func TestCheckOrder(t *testing.T) {
	ingredients := []insumo.IngredientCheck{{Name: "Leche", Needed: dec("10"), Available: dec("1"), Unit: "kg"}}

	missing, err := insumo.CheckOrder(ingredients, nil, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, insumo.ErrMissingInsumos))
	assert.Len(t, missing, 1)

	missing, err = insumo.CheckOrder(ingredients, nil, true)
	require.NoError(t, err, "crear de todas formas omite el bloqueo")
	assert.Len(t, missing, 1)

	missing, err = insumo.CheckOrder(nil, nil, false)
	require.NoError(t, err)
	assert.Empty(t, missing)
}
