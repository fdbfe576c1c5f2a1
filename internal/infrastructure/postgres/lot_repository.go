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

var _ repository.LotRepository = (*LotRepo)(nil)

const lotColumns = `id, identifier, material_id, warehouse_id, units_available, unit_peso, updated_at`

// LotRepo bultos de insumos (usable con pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

// ListAvailable bultos del insumo en la bodega con unidades disponibles, los más antiguos primero.
func (r *LotRepo) ListAvailable(ctx context.Context, warehouseID, materialID string) ([]entity.Lot, error) {
	query := `SELECT ` + lotColumns + `
		FROM lots
		WHERE warehouse_id = $1 AND material_id = $2 AND units_available > 0
		ORDER BY created_at, identifier`
	rows, err := r.q.Query(ctx, query, warehouseID, materialID)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()

	var out []entity.Lot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// GetByID obtiene un bulto. Devuelve nil, nil si no existe.
func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	return r.get(ctx, `SELECT `+lotColumns+` FROM lots WHERE id = $1`, id)
}

// GetForUpdate obtiene el bulto y bloquea la fila (SELECT FOR UPDATE).
func (r *LotRepo) GetForUpdate(ctx context.Context, id string) (*entity.Lot, error) {
	return r.get(ctx, `SELECT `+lotColumns+` FROM lots WHERE id = $1 FOR UPDATE`, id)
}

func (r *LotRepo) get(ctx context.Context, query, id string) (*entity.Lot, error) {
	l, err := scanLot(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return l, nil
}

// UpdateUnitsAvailable fija las sub-unidades disponibles del bulto.
func (r *LotRepo) UpdateUnitsAvailable(ctx context.Context, id string, units decimal.Decimal) error {
	query := `UPDATE lots SET units_available = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, units)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("bulto %s: %w", id, domain.ErrLotExhausted)
		}
		return fmt.Errorf("update lot units: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanLot(row pgx.Row) (*entity.Lot, error) {
	var l entity.Lot
	err := row.Scan(&l.ID, &l.Identifier, &l.MaterialID, &l.WarehouseID, &l.UnitsAvailable, &l.UnitPeso, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan lot: %w", err)
	}
	return &l, nil
}
