package entity

import "github.com/shopspring/decimal"

// StockEntry cantidad disponible de un insumo en una bodega.
type StockEntry struct {
	MaterialID string
	Available  decimal.Decimal
}

// StockMap stock por insumo para UNA bodega. Se reemplaza completo al cambiar de bodega.
type StockMap map[string]decimal.Decimal

// NewStockMap construye el mapa a partir de las filas de stock de una bodega.
// Filas repetidas para el mismo insumo se suman.
func NewStockMap(entries []StockEntry) StockMap {
	m := make(StockMap, len(entries))
	for _, e := range entries {
		if e.MaterialID == "" {
			continue
		}
		m[e.MaterialID] = m[e.MaterialID].Add(e.Available)
	}
	return m
}

// Lookup devuelve el stock del insumo y si existe en el mapa.
func (m StockMap) Lookup(materialID string) (decimal.Decimal, bool) {
	q, ok := m[materialID]
	return q, ok
}

// Get devuelve el stock o cero si el insumo no aparece.
func (m StockMap) Get(materialID string) decimal.Decimal {
	return m[materialID]
}
