package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/insumos-api/internal/application/dto"
	"github.com/jhoicas/insumos-api/internal/domain/insumo"
)

// OrderHandler asignación masiva y verificación de faltantes de órdenes de producción.
type OrderHandler struct {
	allocations AllocationService
	preflight   PreflightService
}

// NewOrderHandler construye el handler.
func NewOrderHandler(allocations AllocationService, preflight PreflightService) *OrderHandler {
	return &OrderHandler{allocations: allocations, preflight: preflight}
}

// AllocateAll godoc
// @Summary      Asignar todos los registros de una orden
// @Description  Valida todos los registros sin consumo antes de comprometer. Si falla un envío,
//
//	los registros anteriores quedan comprometidos y se informan en details.committed.
//
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "ID de la orden"
// @Param        body  body      dto.AllocateAllInput  true  "Candidatos por registro"
// @Success      201   {object}  dto.AllocateAllResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ValidationErrorResponse
// @Router       /api/orders/{id}/allocations [post]
func (h *OrderHandler) AllocateAll(c *fiber.Ctx) error {
	var in dto.AllocateAllInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.allocations.AllocateAll(c.Context(), c.Params("id"), in.WarehouseID, in.Allocations)
	var blocked *insumo.BatchBlockedError
	if errors.As(err, &blocked) && out != nil {
		return c.Status(fiber.StatusConflict).JSON(dto.ValidationErrorResponse{
			Code:    CodeBatchBlocked,
			Message: err.Error(),
			Details: fiber.Map{
				"registro_id": blocked.RegistroID,
				"material":    blocked.Material,
				"cause":       causeCode(blocked.Cause),
				"batch_id":    out.BatchID,
				"committed":   out.Committed,
			},
		})
	}
	if err != nil {
		return writeError(c, err, CodeInternal)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Preflight godoc
// @Summary      Verificar faltantes antes de crear la orden
// @Description  409 con la lista de faltantes salvo skip_validation=true.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body      dto.PreflightInput  true  "Ingredientes e insumos de formato"
// @Success      200   {object}  dto.PreflightResponse
// @Failure      409   {object}  dto.ValidationErrorResponse
// @Router       /api/orders/preflight [post]
func (h *OrderHandler) Preflight(c *fiber.Ctx) error {
	var in dto.PreflightInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.preflight.Check(c.Context(), in)
	if err != nil {
		return writeError(c, err, CodeInternal)
	}
	return c.JSON(out)
}

// PreflightReport godoc
// @Summary      Reporte PDF de faltantes
// @Tags         orders
// @Accept       json
// @Produce      application/pdf
// @Param        title  query  string              false  "Título (p. ej. número de orden)"
// @Param        body   body   dto.PreflightInput  true   "Ingredientes e insumos de formato"
// @Success      200
// @Router       /api/orders/preflight/report [post]
func (h *OrderHandler) PreflightReport(c *fiber.Ctx) error {
	var in dto.PreflightInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	pdf, err := h.preflight.Report(c.Context(), c.Query("title"), in)
	if err != nil {
		return writeError(c, err, CodeInternal)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="faltantes.pdf"`)
	return c.Send(pdf)
}
