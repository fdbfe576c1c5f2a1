// Package catalogfile lee catálogos de insumos desde planillas (xlsx, xls) o CSV.
//
// Columnas reconocidas (sin distinguir mayúsculas ni acentos): id, nombre, unidad, categoria,
// activo, stock critico, formato, unidades por formato, unidad de consumo. Las de formato son
// opcionales y generan un formato de empaque para el insumo de la fila.
package catalogfile

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/insumo"
)

// Catalog insumos y formatos leídos de un archivo.
type Catalog struct {
	Materials []entity.Material
	Formats   []entity.Format
}

// RowError fila descartada y el motivo.
type RowError struct {
	Row    int
	Reason string
}

func (e RowError) Error() string { return fmt.Sprintf("fila %d: %s", e.Row, e.Reason) }

// Read elige el parser por extensión. headerRow es 1-based.
// Las filas inválidas se descartan y se devuelven en skipped.
func Read(r io.Reader, filename string, headerRow int) (*Catalog, []RowError, error) {
	var rows [][]string
	var err error
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx":
		rows, err = readXLSX(r)
	case ".xls":
		rows, err = readXLS(r)
	case ".csv":
		rows, err = readCSV(r)
	default:
		return nil, nil, fmt.Errorf("formato de archivo no soportado: %s", ext)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("leer %s: %w", filename, err)
	}
	cat, skipped := parseRows(rows, headerRow)
	return cat, skipped, nil
}

// columns nombres normalizados aceptados por campo.
var columns = map[string][]string{
	"id":          {"id", "codigo", "code"},
	"name":        {"nombre", "name", "insumo"},
	"unit":        {"unidad", "unit", "unidad base"},
	"category":    {"categoria", "category"},
	"active":      {"activo", "active"},
	"critical":    {"stock critico", "critical stock", "critico"},
	"format":      {"formato", "format"},
	"perFormat":   {"unidades por formato", "units per format", "multiplicador"},
	"consumption": {"unidad de consumo", "consumption unit"},
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int)
	for i, h := range header {
		n := insumo.Normalize(strings.ReplaceAll(h, "_", " "))
		for field, names := range columns {
			for _, name := range names {
				if n == name {
					if _, seen := idx[field]; !seen {
						idx[field] = i
					}
				}
			}
		}
	}
	return idx
}

func parseRows(rows [][]string, headerRow int) (*Catalog, []RowError) {
	cat := &Catalog{}
	h := headerRow - 1
	if h < 0 || h >= len(rows) {
		return cat, nil
	}
	idx := headerIndex(rows[h])
	cell := func(rec []string, field string) string {
		i, ok := idx[field]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var skipped []RowError
	seen := make(map[string]bool)
	for n := h + 1; n < len(rows); n++ {
		rec := rows[n]
		if isBlank(rec) {
			continue
		}
		rowNum := n + 1
		id, name := cell(rec, "id"), cell(rec, "name")
		if id == "" || name == "" {
			skipped = append(skipped, RowError{Row: rowNum, Reason: "id y nombre son obligatorios"})
			continue
		}
		unit, ok := ParseUnit(cell(rec, "unit"))
		if !ok {
			skipped = append(skipped, RowError{Row: rowNum, Reason: fmt.Sprintf("unidad desconocida %q", cell(rec, "unit"))})
			continue
		}
		critical, err := parseDecimal(cell(rec, "critical"))
		if err != nil {
			skipped = append(skipped, RowError{Row: rowNum, Reason: "stock crítico inválido"})
			continue
		}

		if !seen[id] {
			seen[id] = true
			cat.Materials = append(cat.Materials, entity.Material{
				ID:            id,
				Name:          name,
				Unit:          unit,
				Active:        ParseActive(cell(rec, "active")),
				Category:      cell(rec, "category"),
				CriticalStock: critical,
			})
		}

		label := cell(rec, "format")
		if label == "" {
			continue
		}
		perFormat, err := parseDecimal(cell(rec, "perFormat"))
		if err != nil || !perFormat.IsPositive() {
			skipped = append(skipped, RowError{Row: rowNum, Reason: "unidades por formato inválidas"})
			continue
		}
		consumption := ParseActive(cell(rec, "consumption"))
		cat.Formats = append(cat.Formats, entity.Format{
			ID:                fmt.Sprintf("%s-F%d", id, countFormats(cat.Formats, id)+1),
			MaterialID:        id,
			Label:             label,
			UnitsPerFormat:    perFormat,
			IsConsumptionUnit: consumption != nil && *consumption,
		})
	}
	return cat, skipped
}

// ParseUnit acepta el nombre completo o la abreviatura de la unidad base.
func ParseUnit(s string) (entity.UnitType, bool) {
	switch insumo.Normalize(s) {
	case "u", "un", "und", "unidad", "unidades":
		return entity.UnitUnits, true
	case "kg", "kilo", "kilos", "kilogramo", "kilogramos":
		return entity.UnitKilograms, true
	case "g", "gr", "gramo", "gramos":
		return entity.UnitGrams, true
	case "l", "lt", "litro", "litros":
		return entity.UnitLiters, true
	}
	return "", false
}

// ParseActive "si"/"no" (y variantes); vacío o desconocido devuelve nil (se trata como activo).
func ParseActive(s string) *bool {
	var v bool
	switch insumo.Normalize(s) {
	case "si", "s", "true", "1", "x", "activo":
		v = true
	case "no", "n", "false", "0", "inactivo":
		v = false
	default:
		return nil
	}
	return &v
}

// parseDecimal admite coma decimal; vacío es cero.
func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
}

func countFormats(formats []entity.Format, materialID string) int {
	n := 0
	for _, f := range formats {
		if f.MaterialID == materialID {
			n++
		}
	}
	return n
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
