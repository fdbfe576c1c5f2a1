package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/insumos-api/internal/application/dto"
	"github.com/jhoicas/insumos-api/internal/domain"
)

// AllocationHandler asignación de bultos a registros y reversiones.
type AllocationHandler struct {
	allocations AllocationService
}

// NewAllocationHandler construye el handler.
func NewAllocationHandler(allocations AllocationService) *AllocationHandler {
	return &AllocationHandler{allocations: allocations}
}

// CandidateLots godoc
// @Summary      Bultos candidatos de un registro
// @Tags         registros
// @Produce      json
// @Param        id            path   string  true  "ID del registro"
// @Param        warehouse_id  query  string  true  "Bodega"
// @Success      200  {object}  dto.CandidateLotsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/registros/{id}/lots [get]
func (h *AllocationHandler) CandidateLots(c *fiber.Ctx) error {
	out, err := h.allocations.CandidateLots(c.Context(), c.Params("id"), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, err, CodeLoadFailed)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Asignaciones comprometidas de un registro
// @Tags         registros
// @Produce      json
// @Param        id   path      string  true  "ID del registro"
// @Success      200  {object}  dto.RegistroAllocationsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/registros/{id}/allocations [get]
func (h *AllocationHandler) List(c *fiber.Ctx) error {
	out, err := h.allocations.Allocations(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err, CodeLoadFailed)
	}
	return c.JSON(out)
}

// Allocate godoc
// @Summary      Asignar bultos a un registro
// @Description  Descarta cantidades <= 0, canonicaliza, absorbe el redondeo en el último bulto
//
//	y rechaza excesos sobre la tolerancia (máx(0.0001, 1% de lo requerido)).
//
// @Tags         registros
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "ID del registro"
// @Param        body  body      dto.AllocateInput  true  "Cantidades por bulto"
// @Success      201   {object}  dto.AllocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/registros/{id}/allocations [post]
func (h *AllocationHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.allocations.Allocate(c.Context(), c.Params("id"), in.WarehouseID, in.Allocations)
	if err != nil {
		return writeError(c, err, CodeInternal)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// PreviewReversal godoc
// @Summary      Vista previa de reversión
// @Description  Equivalencia exacta (cantidad / peso unitario) que volvería al bulto.
// @Tags         registros
// @Produce      json
// @Param        id      path      string  true  "ID del registro"
// @Param        lot_id  path      string  true  "ID del bulto"
// @Success      200     {object}  dto.ReversalResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/registros/{id}/allocations/{lot_id}/reversal [get]
func (h *AllocationHandler) PreviewReversal(c *fiber.Ctx) error {
	out, err := h.allocations.PreviewReversal(c.Context(), c.Params("id"), c.Params("lot_id"))
	if err != nil {
		return writeError(c, err, CodeLoadFailed)
	}
	return c.JSON(out)
}

// Reverse godoc
// @Summary      Revertir asignación
// @Description  Requiere confirm=true. Sin confirmación responde 428 con la vista previa.
// @Tags         registros
// @Produce      json
// @Param        id       path      string  true   "ID del registro"
// @Param        lot_id   path      string  true   "ID del bulto"
// @Param        confirm  query     bool    false  "Confirmación explícita"
// @Success      200      {object}  dto.ReversalResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Failure      428      {object}  dto.ValidationErrorResponse
// @Router       /api/registros/{id}/allocations/{lot_id} [delete]
func (h *AllocationHandler) Reverse(c *fiber.Ctx) error {
	registroID, lotID := c.Params("id"), c.Params("lot_id")
	out, err := h.allocations.Reverse(c.Context(), registroID, lotID, c.QueryBool("confirm"))
	if errors.Is(err, domain.ErrConfirmationRequired) {
		preview, perr := h.allocations.PreviewReversal(c.Context(), registroID, lotID)
		if perr != nil {
			return writeError(c, perr, CodeLoadFailed)
		}
		return c.Status(fiber.StatusPreconditionRequired).JSON(dto.ValidationErrorResponse{
			Code:    CodeConfirmationRequired,
			Message: err.Error(),
			Details: preview.Plan,
		})
	}
	if err != nil {
		return writeError(c, err, CodeInternal)
	}
	return c.JSON(out)
}
