package insumo

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
)

var (
	minTolerance  = decimal.RequireFromString("0.0001")
	toleranceRate = decimal.RequireFromString("0.01")
)

// Candidate cantidad propuesta a consumir de un bulto.
type Candidate struct {
	LotID    string          `json:"lot_id"`
	Quantity decimal.Decimal `json:"quantity_used"`
}

// Allocation asignación aceptada, lista para enviarse.
type Allocation struct {
	Needed    decimal.Decimal `json:"needed"`
	Tolerance decimal.Decimal `json:"tolerance"`
	Total     decimal.Decimal `json:"total"`
	Lines     []Candidate     `json:"lines"`
	// Adjustment cantidad descontada del final de la lista para absorber el redondeo.
	Adjustment decimal.Decimal `json:"adjustment"`
}

// Tolerance max(0.0001, needed × 1%).
func Tolerance(needed decimal.Decimal) decimal.Decimal {
	return decimal.Max(minTolerance, needed.Mul(toleranceRate))
}

// Reconcile valida y ajusta las cantidades propuestas para cubrir needed:
//  1. descarta cantidades <= 0 (sin ninguna: NO_LOTS_SELECTED),
//  2. canonicaliza cada cantidad,
//  3. si la suma excede needed dentro de la tolerancia, reduce la última cantidad
//     para que la suma sea exactamente needed y la vuelve a canonicalizar,
//  4. si el total sigue superando needed + tolerancia: EXCESS_ALLOCATION.
//
// No modifica candidates.
func Reconcile(needed decimal.Decimal, candidates []Candidate, unit string) (*Allocation, error) {
	if !needed.IsPositive() {
		return nil, fmt.Errorf("cantidad requerida %s: %w", needed.String(), domain.ErrInvalidInput)
	}

	lines := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !c.Quantity.IsPositive() {
			continue
		}
		lines = append(lines, Candidate{LotID: c.LotID, Quantity: Canonicalize(c.Quantity)})
	}
	if len(lines) == 0 {
		return nil, &AllocationError{Kind: KindNoLotsSelected, Needed: needed, Unit: unit}
	}

	tol := Tolerance(needed)
	excess := sumCandidates(lines).Sub(needed)
	adjustment := decimal.Zero
	if excess.IsPositive() && excess.LessThanOrEqual(tol) {
		lines = absorbExcess(lines, excess)
		adjustment = excess
	}

	total := sumCandidates(lines)
	if total.GreaterThan(needed.Add(tol)) {
		return nil, &AllocationError{Kind: KindExcessAllocation, Attempted: total, Needed: needed, Unit: unit}
	}
	return &Allocation{
		Needed:     needed,
		Tolerance:  tol,
		Total:      total,
		Lines:      lines,
		Adjustment: adjustment,
	}, nil
}

// absorbExcess descuenta excess desde el final de la lista. Normalmente basta con la
// última cantidad; si ésta no alcanza se elimina y el resto se descuenta de la anterior.
func absorbExcess(lines []Candidate, excess decimal.Decimal) []Candidate {
	remaining := excess
	for i := len(lines) - 1; i >= 0 && remaining.IsPositive(); i-- {
		q := lines[i].Quantity
		if q.GreaterThan(remaining) {
			lines[i].Quantity = Canonicalize(q.Sub(remaining))
			remaining = decimal.Zero
			break
		}
		remaining = remaining.Sub(q)
		lines = lines[:i]
	}
	return lines
}

func sumCandidates(lines []Candidate) decimal.Decimal {
	total := decimal.Zero
	for _, c := range lines {
		total = total.Add(c.Quantity)
	}
	return total
}

// BatchEntry asignación aceptada de un registro dentro de una asignación masiva.
type BatchEntry struct {
	Registro   entity.Registro
	Allocation *Allocation
}

// PlanBatch concilia todos los registros sin consumo previo. Se detiene en el primer
// registro sin candidatos o con una asignación inválida, sin devolver un plan parcial.
func PlanBatch(registros []entity.Registro, candidates map[string][]Candidate) ([]BatchEntry, error) {
	plan := make([]BatchEntry, 0, len(registros))
	for _, r := range registros {
		if r.Started() {
			continue
		}
		alloc, err := Reconcile(r.QuantityNeeded, candidates[r.ID], r.Unit.Label())
		if err != nil {
			return nil, &BatchBlockedError{RegistroID: r.ID, Material: r.MaterialName, Cause: err}
		}
		plan = append(plan, BatchEntry{Registro: r, Allocation: alloc})
	}
	return plan, nil
}
