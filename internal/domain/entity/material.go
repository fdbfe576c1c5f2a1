package entity

import "github.com/shopspring/decimal"

// UnitType unidad base de un insumo.
type UnitType string

const (
	UnitUnits     UnitType = "unidades"
	UnitKilograms UnitType = "kilogramos"
	UnitGrams     UnitType = "gramos"
	UnitLiters    UnitType = "litros"
)

// DefaultCategory etiqueta para insumos sin categoría.
const DefaultCategory = "Sin categoría"

// IsInteger indica si la unidad solo admite cantidades enteras.
func (u UnitType) IsInteger() bool { return u == UnitUnits }

// Label abreviatura para mensajes al usuario.
func (u UnitType) Label() string {
	switch u {
	case UnitUnits:
		return "u"
	case UnitKilograms:
		return "kg"
	case UnitGrams:
		return "g"
	case UnitLiters:
		return "L"
	default:
		return string(u)
	}
}

// Valid indica si la unidad pertenece al conjunto conocido.
func (u UnitType) Valid() bool {
	switch u {
	case UnitUnits, UnitKilograms, UnitGrams, UnitLiters:
		return true
	}
	return false
}

// Material representa un insumo del catálogo (snapshot de solo lectura por sesión).
// Active nil se trata como activo; solo un false explícito lo excluye.
type Material struct {
	ID            string
	Name          string
	Unit          UnitType
	Active        *bool
	Category      string
	CriticalStock decimal.Decimal
}

// IsActive devuelve false solo si Active fue marcado explícitamente como false.
func (m Material) IsActive() bool {
	return m.Active == nil || *m.Active
}

// CategoryOrDefault devuelve la categoría o DefaultCategory si está vacía.
func (m Material) CategoryOrDefault() string {
	if m.Category == "" {
		return DefaultCategory
	}
	return m.Category
}
