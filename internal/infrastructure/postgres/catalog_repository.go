package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo lectura del catálogo de insumos.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// ListMaterials devuelve todos los insumos (activos e inactivos) ordenados por nombre.
func (r *CatalogRepo) ListMaterials(ctx context.Context) ([]entity.Material, error) {
	query := `
		SELECT id, name, unit, active, COALESCE(category, ''), critical_stock
		FROM materials
		ORDER BY name, id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var out []entity.Material
	for rows.Next() {
		var m entity.Material
		var unit string
		if err := rows.Scan(&m.ID, &m.Name, &unit, &m.Active, &m.Category, &m.CriticalStock); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		m.Unit = entity.UnitType(unit)
		out = append(out, m)
	}
	return out, rows.Err()
}
