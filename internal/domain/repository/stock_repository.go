package repository

import (
	"context"

	"github.com/jhoicas/insumos-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar el stock por bodega.
type StockRepository interface {
	ListByWarehouse(ctx context.Context, warehouseID string) ([]entity.StockEntry, error)
}
