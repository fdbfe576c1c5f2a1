package catalogfile

import (
	"fmt"
	"io"
	"strings"
)

// WriteSQL emite un script idempotente que inserta o actualiza insumos y formatos.
func WriteSQL(w io.Writer, cat *Catalog, source string) error {
	var b strings.Builder
	b.WriteString("-- Catálogo de insumos\n")
	fmt.Fprintf(&b, "-- Generado desde %s\n\n", source)

	if len(cat.Materials) > 0 {
		b.WriteString("-- 1. Insumos\n")
		b.WriteString("INSERT INTO materials (id, name, unit, active, category, critical_stock) VALUES\n")
		for i, m := range cat.Materials {
			active := "NULL"
			if m.Active != nil {
				active = fmt.Sprintf("%t", *m.Active)
			}
			category := "NULL"
			if m.Category != "" {
				category = quote(m.Category)
			}
			fmt.Fprintf(&b, "  (%s, %s, %s, %s, %s, %s)",
				quote(m.ID), quote(m.Name), quote(string(m.Unit)), active, category, m.CriticalStock.String())
			if i < len(cat.Materials)-1 {
				b.WriteString(",\n")
			} else {
				b.WriteString("\n")
			}
		}
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, unit = EXCLUDED.unit, active = EXCLUDED.active,\n")
		b.WriteString("  category = EXCLUDED.category, critical_stock = EXCLUDED.critical_stock;\n\n")
	}

	if len(cat.Formats) > 0 {
		b.WriteString("-- 2. Formatos de empaque\n")
		b.WriteString("INSERT INTO material_formats (id, material_id, label, units_per_format, is_consumption_unit) VALUES\n")
		for i, f := range cat.Formats {
			fmt.Fprintf(&b, "  (%s, %s, %s, %s, %t)",
				quote(f.ID), quote(f.MaterialID), quote(f.Label), f.UnitsPerFormat.String(), f.IsConsumptionUnit)
			if i < len(cat.Formats)-1 {
				b.WriteString(",\n")
			} else {
				b.WriteString("\n")
			}
		}
		b.WriteString("ON CONFLICT (id) DO UPDATE SET label = EXCLUDED.label, units_per_format = EXCLUDED.units_per_format,\n")
		b.WriteString("  is_consumption_unit = EXCLUDED.is_consumption_unit;\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
