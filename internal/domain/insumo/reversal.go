package insumo

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
)

// ReversalPlan equivalencia exacta que se muestra antes de confirmar una reversión.
type ReversalPlan struct {
	RegistroID    string          `json:"registro_id"`
	LotID         string          `json:"lot_id"`
	LotIdentifier string          `json:"lot_identifier"`
	QuantityUsed  decimal.Decimal `json:"quantity_used"`
	UnitPeso      decimal.Decimal `json:"unit_peso"`
	UnitsReturned decimal.Decimal `json:"units_returned"`
	Summary       string          `json:"summary"`
}

// PlanReversal calcula cuántas sub-unidades vuelven al bulto: quantityUsed / unitPeso.
func PlanReversal(line entity.AllocationLine, lot entity.Lot, unit string) (*ReversalPlan, error) {
	if !lot.UnitPeso.IsPositive() {
		return nil, fmt.Errorf("bulto %s con peso unitario %s: %w", lot.ID, lot.UnitPeso.String(), domain.ErrInvalidInput)
	}
	if !line.QuantityUsed.IsPositive() {
		return nil, fmt.Errorf("asignación sin cantidad: %w", domain.ErrInvalidInput)
	}
	units := line.QuantityUsed.Div(lot.UnitPeso)
	return &ReversalPlan{
		RegistroID:    line.RegistroID,
		LotID:         lot.ID,
		LotIdentifier: lot.Identifier,
		QuantityUsed:  line.QuantityUsed,
		UnitPeso:      lot.UnitPeso,
		UnitsReturned: units,
		Summary: fmt.Sprintf("se devolverán %s %s al bulto %s (%s unidades de %s %s)",
			line.QuantityUsed.String(), unit, lot.Identifier,
			units.String(), lot.UnitPeso.String(), unit),
	}, nil
}
