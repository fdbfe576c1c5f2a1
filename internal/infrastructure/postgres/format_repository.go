package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

var _ repository.FormatRepository = (*FormatRepo)(nil)

// FormatRepo formatos de empaque por insumo.
type FormatRepo struct {
	q Querier
}

// NewFormatRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFormatRepository(q Querier) *FormatRepo {
	return &FormatRepo{q: q}
}

// ListByMaterial devuelve los formatos tal como están guardados; el filtrado y orden
// de formatos utilizables lo hace el motor.
func (r *FormatRepo) ListByMaterial(ctx context.Context, materialID string) ([]entity.Format, error) {
	query := `
		SELECT id, material_id, label, units_per_format, is_consumption_unit
		FROM material_formats
		WHERE material_id = $1
		ORDER BY id`
	rows, err := r.q.Query(ctx, query, materialID)
	if err != nil {
		return nil, fmt.Errorf("list formats: %w", err)
	}
	defer rows.Close()

	var out []entity.Format
	for rows.Next() {
		var f entity.Format
		if err := rows.Scan(&f.ID, &f.MaterialID, &f.Label, &f.UnitsPerFormat, &f.IsConsumptionUnit); err != nil {
			return nil, fmt.Errorf("scan format: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
