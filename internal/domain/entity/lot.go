package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot (bulto) unidad física de inventario de un insumo en una bodega.
// UnitsAvailable son sub-unidades sin consumir; UnitPeso es la cantidad base por sub-unidad.
type Lot struct {
	ID             string
	Identifier     string
	MaterialID     string
	WarehouseID    string
	UnitsAvailable decimal.Decimal
	UnitPeso       decimal.Decimal
	UpdatedAt      time.Time
}

// EquivalentAvailable cantidad base disponible (UnitsAvailable × UnitPeso).
func (l Lot) EquivalentAvailable() decimal.Decimal {
	return l.UnitsAvailable.Mul(l.UnitPeso)
}
