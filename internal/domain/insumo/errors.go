package insumo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores del motor. Todos son recuperables y se comparan con errors.Is.
var (
	ErrNoLotsSelected   = errors.New("no se seleccionaron bultos")
	ErrExcessAllocation = errors.New("la asignación excede la cantidad requerida")
	ErrBatchBlocked     = errors.New("asignación masiva bloqueada")
	ErrMissingInsumos   = errors.New("faltan insumos para la orden")
)

// AllocationErrorKind tipo de rechazo de una asignación.
type AllocationErrorKind string

const (
	KindNoLotsSelected   AllocationErrorKind = "NO_LOTS_SELECTED"
	KindExcessAllocation AllocationErrorKind = "EXCESS_ALLOCATION"
)

// AllocationError rechazo estructurado de una asignación a un registro.
type AllocationError struct {
	Kind      AllocationErrorKind
	Attempted decimal.Decimal
	Needed    decimal.Decimal
	Unit      string
}

func (e *AllocationError) Error() string {
	switch e.Kind {
	case KindNoLotsSelected:
		return "debe seleccionar al menos un bulto con cantidad mayor a 0"
	case KindExcessAllocation:
		return fmt.Sprintf("la cantidad total asignada (%s %s) excede la requerida (%s %s)",
			e.Attempted.String(), e.Unit, e.Needed.String(), e.Unit)
	default:
		return string(e.Kind)
	}
}

// Is permite errors.Is(err, ErrNoLotsSelected) y errors.Is(err, ErrExcessAllocation).
func (e *AllocationError) Is(target error) bool {
	switch e.Kind {
	case KindNoLotsSelected:
		return target == ErrNoLotsSelected
	case KindExcessAllocation:
		return target == ErrExcessAllocation
	}
	return false
}

// BatchBlockedError indica qué registro detuvo la asignación masiva y por qué.
type BatchBlockedError struct {
	RegistroID string
	Material   string
	Cause      error
}

func (e *BatchBlockedError) Error() string {
	return fmt.Sprintf("asignación masiva detenida en %s (registro %s): %v", e.Material, e.RegistroID, e.Cause)
}

func (e *BatchBlockedError) Unwrap() error { return e.Cause }

func (e *BatchBlockedError) Is(target error) bool { return target == ErrBatchBlocked }

// MissingInsumosError lista de faltantes que bloquea la creación de la orden
// salvo que se omita la validación de forma explícita.
type MissingInsumosError struct {
	Items []MissingItem
}

func (e *MissingInsumosError) Error() string {
	names := make([]string, 0, len(e.Items))
	for _, it := range e.Items {
		names = append(names, it.Name)
	}
	return fmt.Sprintf("faltan %d insumos: %s", len(e.Items), strings.Join(names, ", "))
}

func (e *MissingInsumosError) Is(target error) bool { return target == ErrMissingInsumos }
