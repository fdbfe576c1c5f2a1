package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrRegistroCompleted    = errors.New("el registro ya tiene insumos asignados")
	ErrLotExhausted         = errors.New("el bulto no tiene stock suficiente")
	ErrConfirmationRequired = errors.New("la reversión requiere confirmación explícita")
)
