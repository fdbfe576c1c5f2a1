package http

import (
	"context"

	"github.com/jhoicas/insumos-api/internal/application/dto"
	"github.com/jhoicas/insumos-api/internal/domain/insumo"
)

// CatalogService casos de uso de catálogo y borrador de solicitud (implementado por insumo.CatalogUseCase).
type CatalogService interface {
	Options(ctx context.Context, warehouseID, query string, grouped bool) (*dto.OptionsResponse, error)
	Formats(ctx context.Context, materialID string) (*dto.FormatsResponse, error)
	InvalidateFormats(materialID string)
	ValidateRequest(ctx context.Context, in dto.ValidateRequestInput) (*dto.ValidateRequestResponse, error)
}

// AllocationService asignación y reversión de bultos (implementado por insumo.AllocationUseCase).
type AllocationService interface {
	CandidateLots(ctx context.Context, registroID, warehouseID string) (*dto.CandidateLotsResponse, error)
	Allocations(ctx context.Context, registroID string) (*dto.RegistroAllocationsResponse, error)
	Allocate(ctx context.Context, registroID, warehouseID string, candidates []insumo.Candidate) (*dto.AllocationResponse, error)
	AllocateAll(ctx context.Context, orderID, warehouseID string, candidates map[string][]insumo.Candidate) (*dto.AllocateAllResponse, error)
	PreviewReversal(ctx context.Context, registroID, lotID string) (*dto.ReversalResponse, error)
	Reverse(ctx context.Context, registroID, lotID string, confirm bool) (*dto.ReversalResponse, error)
}

// PreflightService verificación de faltantes antes de crear una orden (implementado por insumo.PreflightUseCase).
type PreflightService interface {
	Check(ctx context.Context, in dto.PreflightInput) (*dto.PreflightResponse, error)
	Report(ctx context.Context, title string, in dto.PreflightInput) ([]byte, error)
}
