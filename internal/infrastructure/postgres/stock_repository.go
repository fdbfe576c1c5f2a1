package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo stock por bodega calculado desde los bultos (unidades × peso unitario).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// ListByWarehouse devuelve el equivalente disponible por insumo en la bodega.
func (r *StockRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]entity.StockEntry, error) {
	query := `
		SELECT material_id, SUM(units_available * unit_peso)
		FROM lots
		WHERE warehouse_id = $1 AND units_available > 0
		GROUP BY material_id`
	rows, err := r.q.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()

	var out []entity.StockEntry
	for rows.Next() {
		var e entity.StockEntry
		if err := rows.Scan(&e.MaterialID, &e.Available); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
