package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

var _ repository.AllocationRepository = (*AllocationRepo)(nil)

// AllocationRepo líneas de asignación bulto → registro (usable con pool o tx).
type AllocationRepo struct {
	q Querier
}

// NewAllocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAllocationRepository(q Querier) *AllocationRepo {
	return &AllocationRepo{q: q}
}

// Create registra el consumo. Si ya existe una línea para el mismo registro y bulto, suma la cantidad.
func (r *AllocationRepo) Create(ctx context.Context, line *entity.AllocationLine) error {
	query := `
		INSERT INTO registro_allocations (id, registro_id, lot_id, quantity_used, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (registro_id, lot_id)
		DO UPDATE SET quantity_used = registro_allocations.quantity_used + EXCLUDED.quantity_used`
	_, err := r.q.Exec(ctx, query, line.ID, line.RegistroID, line.LotID, line.QuantityUsed, line.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("registro %s / bulto %s: %w", line.RegistroID, line.LotID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert allocation: %w", err)
	}
	return nil
}

// Get obtiene la línea de un registro y bulto. Devuelve nil, nil si no existe.
func (r *AllocationRepo) Get(ctx context.Context, registroID, lotID string) (*entity.AllocationLine, error) {
	query := `
		SELECT id, registro_id, lot_id, quantity_used, created_at
		FROM registro_allocations
		WHERE registro_id = $1 AND lot_id = $2`
	var l entity.AllocationLine
	err := r.q.QueryRow(ctx, query, registroID, lotID).Scan(&l.ID, &l.RegistroID, &l.LotID, &l.QuantityUsed, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get allocation: %w", err)
	}
	return &l, nil
}

// Delete elimina la línea de asignación.
func (r *AllocationRepo) Delete(ctx context.Context, registroID, lotID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM registro_allocations WHERE registro_id = $1 AND lot_id = $2`, registroID, lotID)
	if err != nil {
		return fmt.Errorf("delete allocation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByRegistro líneas del registro en orden de creación.
func (r *AllocationRepo) ListByRegistro(ctx context.Context, registroID string) ([]entity.AllocationLine, error) {
	query := `
		SELECT id, registro_id, lot_id, quantity_used, created_at
		FROM registro_allocations
		WHERE registro_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, registroID)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer rows.Close()

	var out []entity.AllocationLine
	for rows.Next() {
		var l entity.AllocationLine
		if err := rows.Scan(&l.ID, &l.RegistroID, &l.LotID, &l.QuantityUsed, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
