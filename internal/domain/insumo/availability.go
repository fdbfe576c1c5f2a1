package insumo

import "github.com/shopspring/decimal"

// Orígenes de un faltante.
const (
	OriginIngredient = "ingrediente"
	OriginFormat     = "formato"
)

// IngredientCheck disponibilidad de un ingrediente de la receta.
type IngredientCheck struct {
	Name      string          `json:"name"`
	Needed    decimal.Decimal `json:"needed"`
	Available decimal.Decimal `json:"available"`
	Unit      string          `json:"unit"`
}

// FormatCheck disponibilidad de un insumo de empaque calculada aguas arriba.
// Sufficient nil significa "sin dato"; solo false explícito cuenta como faltante.
type FormatCheck struct {
	Name       string          `json:"name"`
	Needed     decimal.Decimal `json:"needed"`
	Available  decimal.Decimal `json:"available"`
	Unit       string          `json:"unit"`
	Optional   bool            `json:"optional"`
	Sufficient *bool           `json:"sufficient"`
}

// MissingItem faltante reportado antes de crear una orden.
type MissingItem struct {
	Name      string          `json:"name"`
	Needed    decimal.Decimal `json:"needed"`
	Available decimal.Decimal `json:"available"`
	Unit      string          `json:"unit"`
	Origin    string          `json:"origin"`
}

// AggregateMissing une los faltantes de ingredientes (available < needed, sin tolerancia)
// y de insumos de formato no opcionales marcados como insuficientes.
func AggregateMissing(ingredients []IngredientCheck, formats []FormatCheck) []MissingItem {
	out := []MissingItem{}
	for _, in := range ingredients {
		if in.Available.LessThan(in.Needed) {
			out = append(out, MissingItem{
				Name: in.Name, Needed: in.Needed, Available: in.Available,
				Unit: in.Unit, Origin: OriginIngredient,
			})
		}
	}
	for _, f := range formats {
		if f.Optional || f.Sufficient == nil || *f.Sufficient {
			continue
		}
		out = append(out, MissingItem{
			Name: f.Name, Needed: f.Needed, Available: f.Available,
			Unit: f.Unit, Origin: OriginFormat,
		})
	}
	return out
}

// CheckOrder devuelve *MissingInsumosError si hay faltantes y no se pidió omitir la validación.
func CheckOrder(ingredients []IngredientCheck, formats []FormatCheck, skipValidation bool) ([]MissingItem, error) {
	missing := AggregateMissing(ingredients, formats)
	if len(missing) > 0 && !skipValidation {
		return missing, &MissingInsumosError{Items: missing}
	}
	return missing, nil
}
