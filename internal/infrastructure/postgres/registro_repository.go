package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

var _ repository.RegistroRepository = (*RegistroRepo)(nil)

// RegistroRepo registros de consumo por orden de producción (usable con pool o tx).
type RegistroRepo struct {
	q Querier
}

// NewRegistroRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRegistroRepository(q Querier) *RegistroRepo {
	return &RegistroRepo{q: q}
}

const registroSelect = `
		SELECT r.id, r.order_id, r.material_id, m.name, m.unit, r.quantity_needed, r.quantity_used, r.updated_at
		FROM production_registros r
		JOIN materials m ON m.id = r.material_id`

// GetByID obtiene un registro con nombre y unidad del insumo. Devuelve nil, nil si no existe.
func (r *RegistroRepo) GetByID(ctx context.Context, id string) (*entity.Registro, error) {
	return r.get(ctx, registroSelect+` WHERE r.id = $1`, id)
}

// GetForUpdate obtiene el registro y bloquea su fila (no la del insumo).
func (r *RegistroRepo) GetForUpdate(ctx context.Context, id string) (*entity.Registro, error) {
	return r.get(ctx, registroSelect+` WHERE r.id = $1 FOR UPDATE OF r`, id)
}

func (r *RegistroRepo) get(ctx context.Context, query, id string) (*entity.Registro, error) {
	reg, err := scanRegistro(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get registro: %w", err)
	}
	return reg, nil
}

// ListByOrder registros de la orden en el orden de la receta.
func (r *RegistroRepo) ListByOrder(ctx context.Context, orderID string) ([]entity.Registro, error) {
	rows, err := r.q.Query(ctx, registroSelect+` WHERE r.order_id = $1 ORDER BY r.position, r.id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list registros: %w", err)
	}
	defer rows.Close()

	var out []entity.Registro
	for rows.Next() {
		reg, err := scanRegistro(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registro: %w", err)
		}
		out = append(out, *reg)
	}
	return out, rows.Err()
}

// UpdateQuantityUsed fija la cantidad consumida del registro.
func (r *RegistroRepo) UpdateQuantityUsed(ctx context.Context, id string, used decimal.Decimal) error {
	query := `UPDATE production_registros SET quantity_used = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, used)
	if err != nil {
		return fmt.Errorf("update registro: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanRegistro(row pgx.Row) (*entity.Registro, error) {
	var reg entity.Registro
	var unit string
	if err := row.Scan(&reg.ID, &reg.OrderID, &reg.MaterialID, &reg.MaterialName, &unit,
		&reg.QuantityNeeded, &reg.QuantityUsed, &reg.UpdatedAt); err != nil {
		return nil, err
	}
	reg.Unit = entity.UnitType(unit)
	return &reg, nil
}
