package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain/insumo"
)

// OptionsResponse opciones de insumos de una bodega; Groups solo si se pidió agrupar.
type OptionsResponse struct {
	WarehouseID string               `json:"warehouse_id"`
	Total       int                  `json:"total"`
	Options     []insumo.Option      `json:"options,omitempty"`
	Groups      []insumo.OptionGroup `json:"groups,omitempty"`
}

// FormatDTO formato de empaque utilizable.
type FormatDTO struct {
	ID                string          `json:"id"`
	Label             string          `json:"label"`
	UnitsPerFormat    decimal.Decimal `json:"units_per_format"`
	IsConsumptionUnit bool            `json:"is_consumption_unit"`
}

// FormatsResponse formatos ordenados de un insumo con el formato por defecto.
type FormatsResponse struct {
	MaterialID      string      `json:"material_id"`
	DefaultFormatID string      `json:"default_format_id,omitempty"`
	Formats         []FormatDTO `json:"formats"`
}

// RequestLineInput fila del borrador enviada por el cliente.
type RequestLineInput struct {
	MaterialID     string          `json:"material_id"`
	FormatID       string          `json:"format_id"`
	FormatQuantity decimal.Decimal `json:"format_quantity"`
	Comment        string          `json:"comment"`
}

// ValidateRequestInput body para POST /api/insumos/requests/validate.
// DestinationWarehouseID es opcional (traslados entre bodegas).
type ValidateRequestInput struct {
	SourceWarehouseID      string             `json:"source_warehouse_id"`
	DestinationWarehouseID string             `json:"destination_warehouse_id,omitempty"`
	Lines                  []RequestLineInput `json:"lines"`
}

// PayloadLine fila válida lista para enviarse.
type PayloadLine struct {
	MaterialID     string          `json:"material_id"`
	FormatID       string          `json:"format_id,omitempty"`
	FormatQuantity decimal.Decimal `json:"format_quantity"`
	BaseQuantity   decimal.Decimal `json:"base_quantity"`
	Comment        string          `json:"comment,omitempty"`
}

// ValidateRequestResponse resultado por fila y payload con las filas válidas.
type ValidateRequestResponse struct {
	Rows             []insumo.RowResult         `json:"rows"`
	DestinationStock map[string]decimal.Decimal `json:"destination_stock,omitempty"`
	Payload          []PayloadLine              `json:"payload"`
	Valid            bool                       `json:"valid"`
}

// LotDTO bulto candidato.
type LotDTO struct {
	ID                  string          `json:"id"`
	Identifier          string          `json:"identifier"`
	UnitsAvailable      decimal.Decimal `json:"units_available"`
	UnitPeso            decimal.Decimal `json:"unit_peso"`
	EquivalentAvailable decimal.Decimal `json:"equivalent_available"`
}

// RegistroDTO estado de un registro.
type RegistroDTO struct {
	ID             string          `json:"id"`
	OrderID        string          `json:"order_id"`
	MaterialID     string          `json:"material_id"`
	MaterialName   string          `json:"material_name"`
	Unit           string          `json:"unit"`
	QuantityNeeded decimal.Decimal `json:"quantity_needed"`
	QuantityUsed   decimal.Decimal `json:"quantity_used"`
}

// CandidateLotsResponse bultos disponibles para un registro.
type CandidateLotsResponse struct {
	Registro RegistroDTO `json:"registro"`
	Lots     []LotDTO    `json:"lots"`
}

// AllocateInput body para POST /api/registros/:id/allocations.
// WarehouseID es la bodega de la que se listaron los bultos candidatos.
type AllocateInput struct {
	WarehouseID string             `json:"warehouse_id"`
	Allocations []insumo.Candidate `json:"allocations"`
}

// AllocationResponse asignación comprometida.
type AllocationResponse struct {
	Registro   RegistroDTO        `json:"registro"`
	Lines      []insumo.Candidate `json:"lines"`
	Total      decimal.Decimal    `json:"total"`
	Adjustment decimal.Decimal    `json:"adjustment"`
}

// AllocationLineDTO línea de consumo comprometida.
type AllocationLineDTO struct {
	ID           string          `json:"id"`
	LotID        string          `json:"lot_id"`
	QuantityUsed decimal.Decimal `json:"quantity_used"`
	CreatedAt    time.Time       `json:"created_at"`
}

// RegistroAllocationsResponse registro con sus líneas de consumo.
type RegistroAllocationsResponse struct {
	Registro RegistroDTO         `json:"registro"`
	Lines    []AllocationLineDTO `json:"lines"`
}

// AllocateAllInput body para POST /api/orders/:id/allocations: candidatos por registro.
type AllocateAllInput struct {
	WarehouseID string                        `json:"warehouse_id"`
	Allocations map[string][]insumo.Candidate `json:"allocations"`
}

// AllocateAllResponse registros comprometidos en la asignación masiva.
// Skipped lista los registros que otra asignación inició mientras corría el lote.
type AllocateAllResponse struct {
	BatchID   string               `json:"batch_id"`
	Committed []AllocationResponse `json:"committed"`
	Skipped   []string             `json:"skipped,omitempty"`
}

// ReversalResponse resultado (o vista previa) de revertir una asignación.
type ReversalResponse struct {
	Plan     insumo.ReversalPlan `json:"plan"`
	Registro *RegistroDTO        `json:"registro,omitempty"`
	Lot      *LotDTO             `json:"lot,omitempty"`
	Applied  bool                `json:"applied"`
}

// PreflightInput body para POST /api/orders/preflight.
type PreflightInput struct {
	Ingredients    []insumo.IngredientCheck `json:"ingredients"`
	Formats        []insumo.FormatCheck     `json:"formats"`
	SkipValidation bool                     `json:"skip_validation"`
}

// PreflightResponse faltantes y si la orden puede crearse.
type PreflightResponse struct {
	Missing   []insumo.MissingItem `json:"missing"`
	CanCreate bool                 `json:"can_create"`
	Skipped   bool                 `json:"skipped"`
}

// ValidationErrorResponse error de validación con detalle estructurado.
type ValidationErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
