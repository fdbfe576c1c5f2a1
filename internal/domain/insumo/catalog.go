package insumo

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/insumos-api/internal/domain/entity"
)

// Option opción de insumo lista para un selector con búsqueda.
type Option struct {
	Value      string          `json:"value"`
	Label      string          `json:"label"`
	Unit       entity.UnitType `json:"unit"`
	Stock      decimal.Decimal `json:"stock"`
	Category   string          `json:"category"`
	SearchText string          `json:"-"`
}

// OptionGroup opciones agrupadas por categoría.
type OptionGroup struct {
	Label   string   `json:"label"`
	Options []Option `json:"options"`
}

// BuildOptions arma las opciones del catálogo anotadas con el stock de la bodega.
// Se omiten entradas sin id o marcadas explícitamente como inactivas. El orden
// de entrada se conserva.
func BuildOptions(materials []entity.Material, stock entity.StockMap) []Option {
	out := make([]Option, 0, len(materials))
	for _, m := range materials {
		if m.ID == "" || !m.IsActive() {
			continue
		}
		category := m.CategoryOrDefault()
		out = append(out, Option{
			Value:      m.ID,
			Label:      m.Name,
			Unit:       m.Unit,
			Stock:      stock.Get(m.ID),
			Category:   category,
			SearchText: searchText(m, category),
		})
	}
	return out
}

// searchText concatena id, nombre, unidad, categoría, estado y stock crítico normalizados,
// de modo que todos esos campos sean buscables.
func searchText(m entity.Material, category string) string {
	status := "activo"
	if !m.IsActive() {
		status = "inactivo"
	}
	parts := []string{m.ID, m.Name, string(m.Unit), category, status}
	if !m.CriticalStock.IsZero() {
		parts = append(parts, "critico "+m.CriticalStock.String())
	}
	return Normalize(strings.Join(parts, " "))
}

// FilterOptions filtra con Matches contra SearchText (o Label si viniera vacío).
func FilterOptions(options []Option, query string) []Option {
	if strings.TrimSpace(query) == "" {
		return options
	}
	out := make([]Option, 0, len(options))
	for _, o := range options {
		text := o.SearchText
		if text == "" {
			text = Normalize(o.Label)
		}
		if Matches(text, query) {
			out = append(out, o)
		}
	}
	return out
}

// GroupOptions agrupa por categoría; los grupos se ordenan con reglas de orden
// del español y dentro de cada grupo se respeta el orden original.
func GroupOptions(options []Option) []OptionGroup {
	index := make(map[string]int)
	var groups []OptionGroup
	for _, o := range options {
		i, ok := index[o.Category]
		if !ok {
			i = len(groups)
			index[o.Category] = i
			groups = append(groups, OptionGroup{Label: o.Category})
		}
		groups[i].Options = append(groups[i].Options, o)
	}
	col := collate.New(language.Spanish, collate.IgnoreCase)
	sort.SliceStable(groups, func(i, j int) bool {
		return col.CompareString(groups[i].Label, groups[j].Label) < 0
	})
	return groups
}
