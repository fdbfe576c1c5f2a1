package repository

import (
	"context"

	"github.com/jhoicas/insumos-api/internal/domain/entity"
)

// CatalogRepository define el puerto de lectura del catálogo de insumos.
type CatalogRepository interface {
	ListMaterials(ctx context.Context) ([]entity.Material, error)
}
