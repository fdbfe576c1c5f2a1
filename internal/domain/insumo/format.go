package insumo

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain/entity"
)

// RowErrorCode código de validación de una fila del borrador.
type RowErrorCode string

const (
	NoMaterialSelected RowErrorCode = "NO_MATERIAL_SELECTED"
	InsufficientStock  RowErrorCode = "INSUFFICIENT_STOCK"
	InvalidQuantity    RowErrorCode = "INVALID_QUANTITY"
	FormatNotFound     RowErrorCode = "FORMAT_NOT_FOUND"
)

// UsableFormats descarta formatos con multiplicador <= 0 y ordena el resto con SortFormats.
func UsableFormats(formats []entity.Format) []entity.Format {
	out := make([]entity.Format, 0, len(formats))
	for _, f := range formats {
		if f.Usable() {
			out = append(out, f)
		}
	}
	SortFormats(out)
	return out
}

// SortFormats: primero los formatos de unidad de consumo, luego por multiplicador ascendente.
func SortFormats(formats []entity.Format) {
	sort.SliceStable(formats, func(i, j int) bool {
		a, b := formats[i], formats[j]
		if a.IsConsumptionUnit != b.IsConsumptionUnit {
			return a.IsConsumptionUnit
		}
		return a.UnitsPerFormat.LessThan(b.UnitsPerFormat)
	})
}

// DefaultFormat primer formato utilizable tras ordenar; false si no hay ninguno.
func DefaultFormat(formats []entity.Format) (entity.Format, bool) {
	usable := UsableFormats(formats)
	if len(usable) == 0 {
		return entity.Format{}, false
	}
	return usable[0], true
}

// RoundForUnit redondea según la unidad: enteros para "unidades", 2 decimales para el resto.
// Es la única regla de redondeo: se usa para mostrar y para el valor enviado.
func RoundForUnit(unit entity.UnitType, q decimal.Decimal) decimal.Decimal {
	if unit.IsInteger() {
		return q.Round(0)
	}
	return q.Round(2)
}

// ToBaseQuantity convierte una cantidad de formato a unidad base (formatQuantity × unitsPerFormat).
func ToBaseQuantity(unit entity.UnitType, unitsPerFormat, formatQuantity decimal.Decimal) decimal.Decimal {
	return RoundForUnit(unit, formatQuantity.Mul(unitsPerFormat))
}

// RowResult resultado de evaluar una fila del borrador.
type RowResult struct {
	MaterialID     string          `json:"material_id"`
	FormatID       string          `json:"format_id,omitempty"`
	FormatLabel    string          `json:"format_label,omitempty"`
	FormatQuantity decimal.Decimal `json:"format_quantity"`
	BaseQuantity   decimal.Decimal `json:"base_quantity"`
	Unit           entity.UnitType `json:"unit,omitempty"`
	Stock          decimal.Decimal `json:"stock"`
	ExceedsStock   bool            `json:"exceeds_stock"`
	Comment        string          `json:"comment,omitempty"`
	Errors         []RowErrorCode  `json:"errors"`
}

// Valid indica si la fila puede incluirse en la solicitud final.
func (r RowResult) Valid() bool { return len(r.Errors) == 0 }

// ValidateRow valida una fila contra el stock de la bodega. Devuelve códigos, nunca error.
func ValidateRow(line entity.RequestLine, stock entity.StockMap) []RowErrorCode {
	codes := []RowErrorCode{}
	if line.MaterialID == "" {
		codes = append(codes, NoMaterialSelected)
	} else if q, ok := stock.Lookup(line.MaterialID); !ok || !q.IsPositive() {
		codes = append(codes, InsufficientStock)
	}
	if !line.FormatQuantity.Floor().IsPositive() {
		codes = append(codes, InvalidQuantity)
	}
	return codes
}

// EvaluateRow valida la fila y calcula su cantidad base. Si la fila no trae formato se usa
// el formato por defecto; sin formatos utilizables la cantidad ya está en unidad base.
func EvaluateRow(line entity.RequestLine, unit entity.UnitType, formats []entity.Format, stock entity.StockMap) RowResult {
	res := RowResult{
		MaterialID:     line.MaterialID,
		FormatQuantity: line.FormatQuantity.Floor(),
		Unit:           unit,
		Stock:          stock.Get(line.MaterialID),
		Comment:        line.Comment,
		Errors:         ValidateRow(line, stock),
	}
	if line.MaterialID == "" {
		return res
	}

	multiplier := decimal.NewFromInt(1)
	usable := UsableFormats(formats)
	switch {
	case line.FormatID != "":
		f, ok := findFormat(usable, line.FormatID)
		if !ok {
			res.FormatID = line.FormatID
			res.Errors = append(res.Errors, FormatNotFound)
			return res
		}
		res.FormatID, res.FormatLabel, multiplier = f.ID, f.Label, f.UnitsPerFormat
	case len(usable) > 0:
		f := usable[0]
		res.FormatID, res.FormatLabel, multiplier = f.ID, f.Label, f.UnitsPerFormat
	}

	if res.FormatQuantity.IsPositive() {
		res.BaseQuantity = ToBaseQuantity(unit, multiplier, res.FormatQuantity)
		res.ExceedsStock = res.BaseQuantity.GreaterThan(res.Stock)
		if !res.BaseQuantity.IsPositive() {
			res.Errors = append(res.Errors, InvalidQuantity)
		}
	}
	return res
}

func findFormat(formats []entity.Format, id string) (entity.Format, bool) {
	for _, f := range formats {
		if f.ID == id {
			return f, true
		}
	}
	return entity.Format{}, false
}
