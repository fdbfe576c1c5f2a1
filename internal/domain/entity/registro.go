package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Registro lleva la cantidad requerida vs. consumida de un insumo en una orden de producción.
type Registro struct {
	ID             string
	OrderID        string
	MaterialID     string
	MaterialName   string
	Unit           UnitType
	QuantityNeeded decimal.Decimal
	QuantityUsed   decimal.Decimal
	UpdatedAt      time.Time
}

// Remaining cantidad pendiente (nunca negativa).
func (r Registro) Remaining() decimal.Decimal {
	rem := r.QuantityNeeded.Sub(r.QuantityUsed)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

// Started indica si el registro ya tiene consumo asignado.
func (r Registro) Started() bool {
	return r.QuantityUsed.GreaterThan(decimal.Zero)
}

// AllocationLine consumo comprometido de un bulto para un registro.
type AllocationLine struct {
	ID           string
	RegistroID   string
	LotID        string
	QuantityUsed decimal.Decimal
	CreatedAt    time.Time
}
