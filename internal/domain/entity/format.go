package entity

import "github.com/shopspring/decimal"

// Format formato de empaque de un insumo: cuántas unidades base representa una unidad del formato.
type Format struct {
	ID                string
	MaterialID        string
	Label             string
	UnitsPerFormat    decimal.Decimal
	IsConsumptionUnit bool
}

// Usable indica si el formato tiene un multiplicador positivo.
func (f Format) Usable() bool {
	return f.UnitsPerFormat.GreaterThan(decimal.Zero)
}
