package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/insumos-api/internal/application/dto"
	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/insumo"
)

// Códigos de error expuestos al cliente.
const (
	CodeValidation           = "VALIDATION"
	CodeInvalidBody          = "INVALID_BODY"
	CodeNotFound             = "NOT_FOUND"
	CodeLoadFailed           = "LOAD_FAILED"
	CodeInternal             = "INTERNAL"
	CodeRegistroCompleted    = "REGISTRO_COMPLETED"
	CodeLotExhausted         = "LOT_EXHAUSTED"
	CodeConfirmationRequired = "CONFIRMATION_REQUIRED"
	CodeBatchBlocked         = "BATCH_BLOCKED"
	CodeMissingInsumos       = "MISSING_INSUMOS"
)

// writeError traduce errores de dominio y del motor a respuestas HTTP. Los errores no
// reconocidos se responden con fallbackCode (LOAD_FAILED en lecturas, INTERNAL en escrituras).
func writeError(c *fiber.Ctx, err error, fallbackCode string) error {
	var allocErr *insumo.AllocationError
	var batchErr *insumo.BatchBlockedError
	var missingErr *insumo.MissingInsumosError

	switch {
	case errors.As(err, &batchErr):
		return c.Status(fiber.StatusConflict).JSON(dto.ValidationErrorResponse{
			Code:    CodeBatchBlocked,
			Message: err.Error(),
			Details: fiber.Map{
				"registro_id": batchErr.RegistroID,
				"material":    batchErr.Material,
				"cause":       causeCode(batchErr.Cause),
			},
		})
	case errors.As(err, &allocErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{
			Code:    string(allocErr.Kind),
			Message: allocErr.Error(),
			Details: fiber.Map{
				"attempted": allocErr.Attempted,
				"needed":    allocErr.Needed,
				"unit":      allocErr.Unit,
			},
		})
	case errors.As(err, &missingErr):
		return c.Status(fiber.StatusConflict).JSON(dto.ValidationErrorResponse{
			Code:    CodeMissingInsumos,
			Message: missingErr.Error(),
			Details: missingErr.Items,
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeValidation, Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: CodeNotFound, Message: err.Error()})
	case errors.Is(err, domain.ErrRegistroCompleted):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: CodeRegistroCompleted, Message: err.Error()})
	case errors.Is(err, domain.ErrLotExhausted):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: CodeLotExhausted, Message: err.Error()})
	case errors.Is(err, domain.ErrConfirmationRequired):
		return c.Status(fiber.StatusPreconditionRequired).JSON(dto.ErrorResponse{Code: CodeConfirmationRequired, Message: err.Error()})
	}

	if fallbackCode == CodeLoadFailed {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: CodeLoadFailed, Message: "no se pudo cargar: " + err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: CodeInternal, Message: err.Error()})
}

// causeCode código estable de la causa de un bloqueo de asignación masiva.
func causeCode(err error) string {
	var allocErr *insumo.AllocationError
	switch {
	case errors.As(err, &allocErr):
		return string(allocErr.Kind)
	case errors.Is(err, domain.ErrLotExhausted):
		return CodeLotExhausted
	case errors.Is(err, domain.ErrRegistroCompleted):
		return CodeRegistroCompleted
	case errors.Is(err, domain.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return CodeValidation
	default:
		return CodeInternal
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeInvalidBody, Message: "cuerpo inválido"})
}
