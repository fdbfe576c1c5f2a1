package insumo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/application/dto"
	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/insumo"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
	"github.com/jhoicas/insumos-api/pkg/logger"
)

// AllocationUseCase asigna bultos a registros de orden de producción y revierte asignaciones.
// Cada asignación o reversión corre en una transacción con el registro bloqueado
// (mutex por registro en proceso y SELECT FOR UPDATE en la BD).
type AllocationUseCase struct {
	txRunner       AllocationTxRunner
	registroRepo   repository.RegistroRepository
	lotRepo        repository.LotRepository
	allocationRepo repository.AllocationRepository
	locks          *registroLocks
	metrics        Metrics
	log            *logger.Logger
	now            func() time.Time
}

// NewAllocationUseCase construye el caso de uso.
func NewAllocationUseCase(
	txRunner AllocationTxRunner,
	registroRepo repository.RegistroRepository,
	lotRepo repository.LotRepository,
	allocationRepo repository.AllocationRepository,
	metrics Metrics,
	log *logger.Logger,
) *AllocationUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &AllocationUseCase{
		txRunner:       txRunner,
		registroRepo:   registroRepo,
		lotRepo:        lotRepo,
		allocationRepo: allocationRepo,
		locks:          newRegistroLocks(),
		metrics:        metrics,
		log:            log.Component("allocation"),
		now:            time.Now,
	}
}

// CandidateLots lista los bultos con unidades disponibles del insumo del registro en la bodega.
func (uc *AllocationUseCase) CandidateLots(ctx context.Context, registroID, warehouseID string) (*dto.CandidateLotsResponse, error) {
	if registroID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	reg, err := uc.getRegistro(ctx, registroID)
	if err != nil {
		return nil, err
	}
	lots, err := uc.lotRepo.ListAvailable(ctx, warehouseID, reg.MaterialID)
	if err != nil {
		uc.log.Error().Err(err).Str("registro_id", registroID).Str("warehouse_id", warehouseID).Msg("no se pudieron cargar bultos")
		return nil, fmt.Errorf("cargar bultos: %w", err)
	}
	out := &dto.CandidateLotsResponse{Registro: toRegistroDTO(*reg), Lots: make([]dto.LotDTO, 0, len(lots))}
	for _, l := range lots {
		out.Lots = append(out.Lots, toLotDTO(l))
	}
	return out, nil
}

// Allocations devuelve el registro con sus líneas de consumo comprometidas.
func (uc *AllocationUseCase) Allocations(ctx context.Context, registroID string) (*dto.RegistroAllocationsResponse, error) {
	if registroID == "" {
		return nil, domain.ErrInvalidInput
	}
	reg, err := uc.getRegistro(ctx, registroID)
	if err != nil {
		return nil, err
	}
	lines, err := uc.allocationRepo.ListByRegistro(ctx, registroID)
	if err != nil {
		return nil, fmt.Errorf("cargar asignaciones: %w", err)
	}
	out := &dto.RegistroAllocationsResponse{Registro: toRegistroDTO(*reg), Lines: make([]dto.AllocationLineDTO, 0, len(lines))}
	for _, l := range lines {
		out.Lines = append(out.Lines, dto.AllocationLineDTO{
			ID:           l.ID,
			LotID:        l.LotID,
			QuantityUsed: l.QuantityUsed,
			CreatedAt:    l.CreatedAt,
		})
	}
	return out, nil
}

// errRegistroStarted el registro ya tenía consumo al llegar su turno en una asignación masiva.
var errRegistroStarted = errors.New("registro iniciado durante la asignación masiva")

// Allocate concilia los candidatos contra la cantidad pendiente del registro y, si la
// asignación es aceptada, la compromete en una transacción. Los bultos deben ser de la bodega
// indicada. Ninguna asignación rechazada modifica el estado.
func (uc *AllocationUseCase) Allocate(ctx context.Context, registroID, warehouseID string, candidates []insumo.Candidate) (*dto.AllocationResponse, error) {
	if registroID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	unlock := uc.locks.Lock(registroID)
	defer unlock()

	reg, err := uc.getRegistro(ctx, registroID)
	if err != nil {
		return nil, err
	}
	remaining := reg.Remaining()
	if !remaining.IsPositive() {
		uc.metrics.AllocationRejected("REGISTRO_COMPLETED")
		return nil, domain.ErrRegistroCompleted
	}
	if _, err := insumo.Reconcile(remaining, candidates, reg.Unit.Label()); err != nil {
		uc.reject(registroID, err)
		return nil, err
	}

	out, err := uc.commit(ctx, registroID, warehouseID, candidates, false)
	if err != nil {
		uc.reject(registroID, err)
		return nil, err
	}
	uc.metrics.AllocationAccepted(out.Adjustment.IsPositive())
	uc.log.Info().
		Str("registro_id", registroID).
		Str("total", out.Total.String()).
		Str("adjustment", out.Adjustment.String()).
		Int("lines", len(out.Lines)).
		Msg("asignación comprometida")
	return out, nil
}

// AllocateAll asigna todos los registros de la orden que aún no tienen consumo.
// El lote completo se valida antes del primer envío: si un registro no tiene candidatos o su
// asignación es inválida no se compromete nada. Cada registro se compromete en su propia
// transacción; si uno falla los anteriores quedan comprometidos y se devuelven junto al error.
// Un registro que otra asignación inició después de validar el lote se omite.
func (uc *AllocationUseCase) AllocateAll(ctx context.Context, orderID, warehouseID string, candidates map[string][]insumo.Candidate) (*dto.AllocateAllResponse, error) {
	if orderID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	registros, err := uc.registroRepo.ListByOrder(ctx, orderID)
	if err != nil {
		uc.log.Error().Err(err).Str("order_id", orderID).Msg("no se pudieron cargar registros")
		return nil, fmt.Errorf("cargar registros: %w", err)
	}
	if len(registros) == 0 {
		return nil, domain.ErrNotFound
	}

	plan, err := insumo.PlanBatch(registros, candidates)
	if err != nil {
		uc.metrics.AllocationRejected("BATCH_BLOCKED")
		uc.log.Warn().Err(err).Str("order_id", orderID).Msg("asignación masiva bloqueada")
		return nil, err
	}

	out := &dto.AllocateAllResponse{
		BatchID:   uuid.New().String(),
		Committed: make([]dto.AllocationResponse, 0, len(plan)),
	}
	for _, entry := range plan {
		resp, err := uc.commitLocked(ctx, entry.Registro.ID, warehouseID, entry.Allocation.Lines)
		if errors.Is(err, errRegistroStarted) {
			uc.log.Warn().Str("order_id", orderID).Str("registro_id", entry.Registro.ID).Msg("registro iniciado durante la asignación masiva, se omite")
			out.Skipped = append(out.Skipped, entry.Registro.ID)
			continue
		}
		if err != nil {
			uc.reject(entry.Registro.ID, err)
			uc.log.Error().Err(err).
				Str("order_id", orderID).
				Str("batch_id", out.BatchID).
				Int("committed", len(out.Committed)).
				Msg("asignación masiva interrumpida")
			return out, &insumo.BatchBlockedError{
				RegistroID: entry.Registro.ID,
				Material:   entry.Registro.MaterialName,
				Cause:      err,
			}
		}
		uc.metrics.AllocationAccepted(resp.Adjustment.IsPositive())
		out.Committed = append(out.Committed, *resp)
	}
	uc.metrics.BatchCompleted(len(out.Committed))
	uc.log.Info().Str("order_id", orderID).Str("batch_id", out.BatchID).Int("registros", len(out.Committed)).Msg("asignación masiva completada")
	return out, nil
}

func (uc *AllocationUseCase) commitLocked(ctx context.Context, registroID, warehouseID string, lines []insumo.Candidate) (*dto.AllocationResponse, error) {
	unlock := uc.locks.Lock(registroID)
	defer unlock()
	return uc.commit(ctx, registroID, warehouseID, lines, true)
}

// commit vuelve a conciliar con el registro bloqueado (la tx es la autoridad final),
// descuenta las sub-unidades de cada bulto y acumula lo consumido en el registro.
// En una asignación masiva (batch) un registro con consumo devuelve errRegistroStarted.
func (uc *AllocationUseCase) commit(ctx context.Context, registroID, warehouseID string, candidates []insumo.Candidate, batch bool) (*dto.AllocationResponse, error) {
	var out *dto.AllocationResponse
	now := uc.now()
	err := uc.txRunner.Run(ctx, func(
		registros repository.RegistroRepository,
		lots repository.LotRepository,
		allocations repository.AllocationRepository,
	) error {
		reg, err := registros.GetForUpdate(ctx, registroID)
		if err != nil {
			return err
		}
		if reg == nil {
			return domain.ErrNotFound
		}
		if batch && reg.Started() {
			return errRegistroStarted
		}
		remaining := reg.Remaining()
		if !remaining.IsPositive() {
			return domain.ErrRegistroCompleted
		}
		alloc, err := insumo.Reconcile(remaining, candidates, reg.Unit.Label())
		if err != nil {
			return err
		}

		for _, line := range alloc.Lines {
			if err := consumeLot(ctx, lots, allocations, reg, warehouseID, line, now); err != nil {
				return err
			}
		}

		reg.QuantityUsed = reg.QuantityUsed.Add(alloc.Total)
		if err := registros.UpdateQuantityUsed(ctx, reg.ID, reg.QuantityUsed); err != nil {
			return err
		}
		out = &dto.AllocationResponse{
			Registro:   toRegistroDTO(*reg),
			Lines:      alloc.Lines,
			Total:      alloc.Total,
			Adjustment: alloc.Adjustment,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// consumeLot bloquea el bulto, verifica insumo y bodega y descuenta quantity/unitPeso sub-unidades.
func consumeLot(
	ctx context.Context,
	lots repository.LotRepository,
	allocations repository.AllocationRepository,
	reg *entity.Registro,
	warehouseID string,
	line insumo.Candidate,
	now time.Time,
) error {
	lot, err := lots.GetForUpdate(ctx, line.LotID)
	if err != nil {
		return err
	}
	if lot == nil {
		return fmt.Errorf("bulto %s: %w", line.LotID, domain.ErrNotFound)
	}
	if lot.MaterialID != reg.MaterialID {
		return fmt.Errorf("bulto %s no corresponde al insumo %s: %w", lot.Identifier, reg.MaterialID, domain.ErrInvalidInput)
	}
	if lot.WarehouseID != warehouseID {
		return fmt.Errorf("bulto %s no está en la bodega %s: %w", lot.Identifier, warehouseID, domain.ErrInvalidInput)
	}
	units, err := insumo.ConsumeUnits(*lot, line.Quantity, reg.Unit.Label())
	if err != nil {
		return err
	}
	if err := lots.UpdateUnitsAvailable(ctx, lot.ID, units); err != nil {
		return err
	}
	return allocations.Create(ctx, &entity.AllocationLine{
		ID:           uuid.New().String(),
		RegistroID:   reg.ID,
		LotID:        lot.ID,
		QuantityUsed: line.Quantity,
		CreatedAt:    now,
	})
}

// PreviewReversal devuelve la equivalencia exacta que se devolvería al bulto, sin aplicar cambios.
func (uc *AllocationUseCase) PreviewReversal(ctx context.Context, registroID, lotID string) (*dto.ReversalResponse, error) {
	if registroID == "" || lotID == "" {
		return nil, domain.ErrInvalidInput
	}
	reg, err := uc.getRegistro(ctx, registroID)
	if err != nil {
		return nil, err
	}
	line, err := uc.allocationRepo.Get(ctx, registroID, lotID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.ErrNotFound
	}
	lot, err := uc.lotRepo.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	plan, err := insumo.PlanReversal(*line, *lot, reg.Unit.Label())
	if err != nil {
		return nil, err
	}
	regDTO, lotDTO := toRegistroDTO(*reg), toLotDTO(*lot)
	return &dto.ReversalResponse{Plan: *plan, Registro: &regDTO, Lot: &lotDTO}, nil
}

// Reverse devuelve al bulto las sub-unidades de una asignación, elimina la línea y descuenta
// lo consumido del registro. Sin confirm devuelve domain.ErrConfirmationRequired.
func (uc *AllocationUseCase) Reverse(ctx context.Context, registroID, lotID string, confirm bool) (*dto.ReversalResponse, error) {
	if registroID == "" || lotID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !confirm {
		return nil, domain.ErrConfirmationRequired
	}
	unlock := uc.locks.Lock(registroID)
	defer unlock()

	var out *dto.ReversalResponse
	err := uc.txRunner.Run(ctx, func(
		registros repository.RegistroRepository,
		lots repository.LotRepository,
		allocations repository.AllocationRepository,
	) error {
		reg, err := registros.GetForUpdate(ctx, registroID)
		if err != nil {
			return err
		}
		if reg == nil {
			return domain.ErrNotFound
		}
		line, err := allocations.Get(ctx, registroID, lotID)
		if err != nil {
			return err
		}
		if line == nil {
			return domain.ErrNotFound
		}
		lot, err := lots.GetForUpdate(ctx, lotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrNotFound
		}
		plan, err := insumo.PlanReversal(*line, *lot, reg.Unit.Label())
		if err != nil {
			return err
		}

		lot.UnitsAvailable = lot.UnitsAvailable.Add(plan.UnitsReturned)
		if err := lots.UpdateUnitsAvailable(ctx, lot.ID, lot.UnitsAvailable); err != nil {
			return err
		}
		if err := allocations.Delete(ctx, registroID, lotID); err != nil {
			return err
		}
		reg.QuantityUsed = reg.QuantityUsed.Sub(line.QuantityUsed)
		if reg.QuantityUsed.IsNegative() {
			reg.QuantityUsed = decimal.Zero
		}
		if err := registros.UpdateQuantityUsed(ctx, reg.ID, reg.QuantityUsed); err != nil {
			return err
		}

		regDTO, lotDTO := toRegistroDTO(*reg), toLotDTO(*lot)
		out = &dto.ReversalResponse{Plan: *plan, Registro: &regDTO, Lot: &lotDTO, Applied: true}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("registro_id", registroID).Str("lot_id", lotID).Msg("reversión rechazada")
		return nil, err
	}
	uc.metrics.ReversalApplied()
	uc.log.Info().
		Str("registro_id", registroID).
		Str("lot_id", lotID).
		Str("units_returned", out.Plan.UnitsReturned.String()).
		Msg("asignación revertida")
	return out, nil
}

func (uc *AllocationUseCase) getRegistro(ctx context.Context, id string) (*entity.Registro, error) {
	reg, err := uc.registroRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, domain.ErrNotFound
	}
	return reg, nil
}

func (uc *AllocationUseCase) reject(registroID string, err error) {
	reason := rejectReason(err)
	uc.metrics.AllocationRejected(reason)
	uc.log.Warn().Err(err).Str("registro_id", registroID).Str("reason", reason).Msg("asignación rechazada")
}

func rejectReason(err error) string {
	var allocErr *insumo.AllocationError
	switch {
	case errors.As(err, &allocErr):
		return string(allocErr.Kind)
	case errors.Is(err, domain.ErrLotExhausted):
		return "LOT_EXHAUSTED"
	case errors.Is(err, domain.ErrRegistroCompleted):
		return "REGISTRO_COMPLETED"
	case errors.Is(err, domain.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidInput):
		return "INVALID_INPUT"
	default:
		return "INTERNAL"
	}
}

func toRegistroDTO(r entity.Registro) dto.RegistroDTO {
	return dto.RegistroDTO{
		ID:             r.ID,
		OrderID:        r.OrderID,
		MaterialID:     r.MaterialID,
		MaterialName:   r.MaterialName,
		Unit:           string(r.Unit),
		QuantityNeeded: r.QuantityNeeded,
		QuantityUsed:   r.QuantityUsed,
	}
}

func toLotDTO(l entity.Lot) dto.LotDTO {
	return dto.LotDTO{
		ID:                  l.ID,
		Identifier:          l.Identifier,
		UnitsAvailable:      l.UnitsAvailable,
		UnitPeso:            l.UnitPeso,
		EquivalentAvailable: insumo.AvailableQuantity(l),
	}
}
