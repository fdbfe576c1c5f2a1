package repository

import (
	"context"

	"github.com/jhoicas/insumos-api/internal/domain/entity"
)

// FormatRepository define el puerto de formatos de empaque por insumo.
type FormatRepository interface {
	ListByMaterial(ctx context.Context, materialID string) ([]entity.Format, error)
}
