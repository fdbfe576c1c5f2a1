package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain/entity"
)

// LotRepository define el puerto de bultos. Los métodos *ForUpdate bloquean la fila
// y solo tienen sentido dentro de una transacción.
type LotRepository interface {
	ListAvailable(ctx context.Context, warehouseID, materialID string) ([]entity.Lot, error)
	GetByID(ctx context.Context, id string) (*entity.Lot, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Lot, error)
	UpdateUnitsAvailable(ctx context.Context, id string, units decimal.Decimal) error
}
