package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain/entity"
)

// RegistroRepository define el puerto de registros de consumo por orden de producción.
type RegistroRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Registro, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Registro, error)
	ListByOrder(ctx context.Context, orderID string) ([]entity.Registro, error)
	UpdateQuantityUsed(ctx context.Context, id string, used decimal.Decimal) error
}

// AllocationRepository define el puerto de líneas de asignación bulto→registro.
type AllocationRepository interface {
	Create(ctx context.Context, line *entity.AllocationLine) error
	Get(ctx context.Context, registroID, lotID string) (*entity.AllocationLine, error)
	Delete(ctx context.Context, registroID, lotID string) error
	ListByRegistro(ctx context.Context, registroID string) ([]entity.AllocationLine, error)
}
