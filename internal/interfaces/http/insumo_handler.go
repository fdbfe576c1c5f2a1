package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/insumos-api/internal/application/dto"
)

// InsumoHandler catálogo de insumos, formatos y validación del borrador de solicitud.
type InsumoHandler struct {
	catalog CatalogService
}

// NewInsumoHandler construye el handler.
func NewInsumoHandler(catalog CatalogService) *InsumoHandler {
	return &InsumoHandler{catalog: catalog}
}

// Options godoc
// @Summary      Opciones de insumos con stock
// @Description  Catálogo activo anotado con el stock de la bodega, filtrado con búsqueda
//
//	tolerante a acentos y errores de tipeo. grouped=true agrupa por categoría.
//
// @Tags         insumos
// @Produce      json
// @Param        warehouse_id  query  string  true   "Bodega"
// @Param        q             query  string  false  "Texto de búsqueda"
// @Param        grouped       query  bool    false  "Agrupar por categoría"
// @Success      200  {object}  dto.OptionsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/insumos/options [get]
func (h *InsumoHandler) Options(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeValidation, Message: "warehouse_id requerido"})
	}
	out, err := h.catalog.Options(c.Context(), warehouseID, c.Query("q"), c.QueryBool("grouped"))
	if err != nil {
		return writeError(c, err, CodeLoadFailed)
	}
	return c.JSON(out)
}

// Formats godoc
// @Summary      Formatos de empaque de un insumo
// @Tags         insumos
// @Produce      json
// @Param        id   path      string  true  "ID del insumo"
// @Success      200  {object}  dto.FormatsResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/insumos/{id}/formats [get]
func (h *InsumoHandler) Formats(c *fiber.Ctx) error {
	out, err := h.catalog.Formats(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err, CodeLoadFailed)
	}
	return c.JSON(out)
}

// InvalidateCache godoc
// @Summary      Invalidar caché de formatos
// @Description  Se llama al cambiar de bodega o al modificar el catálogo. material_id opcional.
// @Tags         insumos
// @Param        material_id  query  string  false  "Solo este insumo"
// @Success      204
// @Router       /api/insumos/cache/invalidate [post]
func (h *InsumoHandler) InvalidateCache(c *fiber.Ctx) error {
	h.catalog.InvalidateFormats(c.Query("material_id"))
	return c.SendStatus(fiber.StatusNoContent)
}

// ValidateRequest godoc
// @Summary      Validar borrador de solicitud de insumos
// @Description  Valida cada fila contra el stock de la bodega origen, calcula la cantidad base
//
//	y arma el payload con las filas válidas.
//
// @Tags         insumos
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ValidateRequestInput  true  "Bodegas y filas"
// @Success      200   {object}  dto.ValidateRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/insumos/requests/validate [post]
func (h *InsumoHandler) ValidateRequest(c *fiber.Ctx) error {
	var in dto.ValidateRequestInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.catalog.ValidateRequest(c.Context(), in)
	if err != nil {
		return writeError(c, err, CodeLoadFailed)
	}
	return c.JSON(out)
}
