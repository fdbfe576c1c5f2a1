package insumo

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
)

// EquivalenceScale decimales con que se compara una cantidad base contra lo disponible en un bulto.
// quantity/UnitPeso no siempre es exacto: 2 kg de un bulto de 3 kg dejan 0.3333333333333333 sub-unidades.
const EquivalenceScale int32 = 6

// AvailableQuantity cantidad base disponible del bulto, redondeada a EquivalenceScale.
func AvailableQuantity(lot entity.Lot) decimal.Decimal {
	return lot.EquivalentAvailable().Round(EquivalenceScale)
}

// ConsumeUnits devuelve las sub-unidades que quedan en el bulto tras consumir quantity (unidad base).
// Consumir todo lo disponible, o dejar un residuo que redondea a cero, deja el bulto en cero.
func ConsumeUnits(lot entity.Lot, quantity decimal.Decimal, unit string) (decimal.Decimal, error) {
	if !lot.UnitPeso.IsPositive() {
		return decimal.Zero, fmt.Errorf("bulto %s sin peso unitario: %w", lot.Identifier, domain.ErrInvalidInput)
	}
	if !quantity.IsPositive() {
		return decimal.Zero, fmt.Errorf("cantidad %s para el bulto %s: %w", quantity.String(), lot.Identifier, domain.ErrInvalidInput)
	}
	available := AvailableQuantity(lot)
	switch quantity.Cmp(available) {
	case 1:
		return decimal.Zero, fmt.Errorf("bulto %s tiene %s %s disponibles: %w",
			lot.Identifier, available.String(), unit, domain.ErrLotExhausted)
	case 0:
		return decimal.Zero, nil
	}

	units := lot.UnitsAvailable.Sub(quantity.Div(lot.UnitPeso))
	if !units.Mul(lot.UnitPeso).Round(EquivalenceScale).IsPositive() {
		return decimal.Zero, nil
	}
	return units, nil
}
