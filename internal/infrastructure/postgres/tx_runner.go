package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	appinsumo "github.com/jhoicas/insumos-api/internal/application/insumo"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

var _ appinsumo.AllocationTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción READ COMMITTED, ejecuta fn con repositorios atados a la tx
// y hace Commit o Rollback. Las filas se bloquean con los métodos *ForUpdate.
func (r *TxRunner) Run(ctx context.Context, fn func(
	registros repository.RegistroRepository,
	lots repository.LotRepository,
	allocations repository.AllocationRepository,
) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRegistroRepository(tx), NewLotRepository(tx), NewAllocationRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
