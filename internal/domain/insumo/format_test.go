package insumo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/insumo"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestToBaseQuantity(t *testing.T) {
	assert.Equal(t, "36", insumo.ToBaseQuantity(entity.UnitUnits, dec("12"), dec("3")).String())
	assert.Equal(t, "1.75", insumo.ToBaseQuantity(entity.UnitKilograms, dec("0.25"), dec("7")).String())
	assert.Equal(t, "4", insumo.ToBaseQuantity(entity.UnitUnits, dec("1.333"), dec("3")).String())
	assert.Equal(t, "0.67", insumo.ToBaseQuantity(entity.UnitLiters, dec("0.3333"), dec("2")).String())
}

func TestUsableFormats_DescartaYOrdena(t *testing.T) {
	formats := []entity.Format{
		{ID: "caja", UnitsPerFormat: dec("24")},
		{ID: "roto", UnitsPerFormat: dec("0")},
		{ID: "six", UnitsPerFormat: dec("6")},
		{ID: "neg", UnitsPerFormat: dec("-1")},
		{ID: "unidad", UnitsPerFormat: dec("1"), IsConsumptionUnit: true},
	}
	usable := insumo.UsableFormats(formats)
	ids := make([]string, 0, len(usable))
	for _, f := range usable {
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []string{"unidad", "six", "caja"}, ids)

	def, ok := insumo.DefaultFormat(formats)
	require.True(t, ok)
	assert.Equal(t, "unidad", def.ID)

	_, ok = insumo.DefaultFormat([]entity.Format{{ID: "x", UnitsPerFormat: decimal.Zero}})
	assert.False(t, ok)
}

func TestValidateRow(t *testing.T) {
	stock := entity.StockMap{"A": dec("10"), "B": decimal.Zero}

	tests := []struct {
		name string
		line entity.RequestLine
		want []insumo.RowErrorCode
	}{
		{"válida", entity.RequestLine{MaterialID: "A", FormatQuantity: dec("2")}, []insumo.RowErrorCode{}},
		{"sin insumo", entity.RequestLine{FormatQuantity: dec("1")}, []insumo.RowErrorCode{insumo.NoMaterialSelected}},
		{"stock cero", entity.RequestLine{MaterialID: "B", FormatQuantity: dec("1")}, []insumo.RowErrorCode{insumo.InsufficientStock}},
		{"sin fila de stock", entity.RequestLine{MaterialID: "C", FormatQuantity: dec("1")}, []insumo.RowErrorCode{insumo.InsufficientStock}},
		{"fracción menor a uno", entity.RequestLine{MaterialID: "A", FormatQuantity: dec("0.9")}, []insumo.RowErrorCode{insumo.InvalidQuantity}},
		{"negativa", entity.RequestLine{MaterialID: "A", FormatQuantity: dec("-3")}, []insumo.RowErrorCode{insumo.InvalidQuantity}},
		{"todo mal", entity.RequestLine{}, []insumo.RowErrorCode{insumo.NoMaterialSelected, insumo.InvalidQuantity}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, insumo.ValidateRow(tt.line, stock))
		})
	}
}

func TestEvaluateRow(t *testing.T) {
	stock := entity.StockMap{"A": dec("100")}
	formats := []entity.Format{
		{ID: "caja", Label: "Caja x12", UnitsPerFormat: dec("12")},
		{ID: "u", Label: "Unidad", UnitsPerFormat: dec("1"), IsConsumptionUnit: true},
	}

	t.Run("formato elegido y cantidad truncada", func(t *testing.T) {
		res := insumo.EvaluateRow(entity.RequestLine{MaterialID: "A", FormatID: "caja", FormatQuantity: dec("3.7")}, entity.UnitUnits, formats, stock)
		require.True(t, res.Valid())
		assert.Equal(t, "3", res.FormatQuantity.String())
		assert.Equal(t, "36", res.BaseQuantity.String())
		assert.False(t, res.ExceedsStock)
	})

	t.Run("formato por defecto", func(t *testing.T) {
		res := insumo.EvaluateRow(entity.RequestLine{MaterialID: "A", FormatQuantity: dec("5")}, entity.UnitUnits, formats, stock)
		require.True(t, res.Valid())
		assert.Equal(t, "u", res.FormatID)
		assert.Equal(t, "5", res.BaseQuantity.String())
	})

	t.Run("sin formatos usa unidad base", func(t *testing.T) {
		res := insumo.EvaluateRow(entity.RequestLine{MaterialID: "A", FormatQuantity: dec("7")}, entity.UnitKilograms, nil, stock)
		require.True(t, res.Valid())
		assert.Equal(t, "7", res.BaseQuantity.String())
	})

	t.Run("formato desconocido", func(t *testing.T) {
		res := insumo.EvaluateRow(entity.RequestLine{MaterialID: "A", FormatID: "pallet", FormatQuantity: dec("1")}, entity.UnitUnits, formats, stock)
		assert.Contains(t, res.Errors, insumo.FormatNotFound)
	})

	t.Run("supera el stock pero no bloquea", func(t *testing.T) {
		res := insumo.EvaluateRow(entity.RequestLine{MaterialID: "A", FormatID: "caja", FormatQuantity: dec("10")}, entity.UnitUnits, formats, stock)
		assert.True(t, res.Valid())
		assert.True(t, res.ExceedsStock)
	})

	t.Run("cantidad base redondeada a cero", func(t *testing.T) {
		tiny := []entity.Format{{ID: "g", UnitsPerFormat: dec("0.1")}}
		res := insumo.EvaluateRow(entity.RequestLine{MaterialID: "A", FormatQuantity: dec("2")}, entity.UnitUnits, tiny, stock)
		assert.Equal(t, []insumo.RowErrorCode{insumo.InvalidQuantity}, res.Errors)
	})
}

// Toda fila válida tiene cantidad base > 0 y respeta la regla de redondeo de su unidad.
func TestEvaluateRow_PropiedadCantidadBase(t *testing.T) {
	stock := entity.StockMap{"A": dec("1000")}
	multipliers := []string{"0.001", "0.25", "0.3333", "1", "1.5", "12", "0.07"}
	units := []entity.UnitType{entity.UnitUnits, entity.UnitKilograms, entity.UnitGrams, entity.UnitLiters}

	for _, unit := range units {
		for _, m := range multipliers {
			formats := []entity.Format{{ID: "f", UnitsPerFormat: dec(m)}}
			for q := int64(1); q <= 25; q++ {
				res := insumo.EvaluateRow(entity.RequestLine{MaterialID: "A", FormatQuantity: decimal.NewFromInt(q)}, unit, formats, stock)
				if !res.Valid() {
					continue
				}
				assert.True(t, res.BaseQuantity.IsPositive(), "%s × %d (%s)", m, q, unit)
				if unit.IsInteger() {
					assert.True(t, res.BaseQuantity.IsInteger(), "%s × %d debe ser entero", m, q)
				} else {
					assert.True(t, res.BaseQuantity.Equal(res.BaseQuantity.Round(2)), "%s × %d: máximo 2 decimales", m, q)
				}
			}
		}
	}
}

func TestFormatCache(t *testing.T) {
	calls := 0
	fetch := func(_ context.Context, id string) ([]entity.Format, error) {
		calls++
		if id == "falla" {
			return nil, errors.New("sin conexión")
		}
		return []entity.Format{
			{ID: "caja", UnitsPerFormat: dec("12")},
			{ID: "roto", UnitsPerFormat: decimal.Zero},
		}, nil
	}
	cache := insumo.NewFormatCache(fetch)
	ctx := context.Background()

	f1, err := cache.Get(ctx, "A")
	require.NoError(t, err)
	require.Len(t, f1, 1)

	_, err = cache.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "la segunda consulta se sirve desde caché")

	_, err = cache.Get(ctx, "falla")
	require.Error(t, err)
	_, _ = cache.Get(ctx, "falla")
	assert.Equal(t, 3, calls, "los errores no se memorizan")

	cache.InvalidateMaterial("A")
	_, _ = cache.Get(ctx, "A")
	assert.Equal(t, 4, calls)

	cache.Invalidate()
	assert.Equal(t, 0, cache.Len())
}
