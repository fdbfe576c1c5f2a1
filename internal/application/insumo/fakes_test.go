package insumo_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

// memStore almacén en memoria que implementa los puertos del motor de insumos.
type memStore struct {
	mu          sync.Mutex
	txMu        sync.Mutex
	materials   []entity.Material
	stock       map[string][]entity.StockEntry
	formats     map[string][]entity.Format
	formatCalls map[string]int
	lots        map[string]entity.Lot
	registros   map[string]entity.Registro
	allocations map[string]entity.AllocationLine

	catalogErr     error
	updateUsedErrs map[string]error
	// beforeTx se ejecuta una sola vez al inicio de la próxima transacción.
	beforeTx func()
}

func newMemStore() *memStore {
	return &memStore{
		stock:          make(map[string][]entity.StockEntry),
		formats:        make(map[string][]entity.Format),
		formatCalls:    make(map[string]int),
		lots:           make(map[string]entity.Lot),
		registros:      make(map[string]entity.Registro),
		allocations:    make(map[string]entity.AllocationLine),
		updateUsedErrs: make(map[string]error),
	}
}

func allocKey(registroID, lotID string) string { return registroID + "|" + lotID }

func (s *memStore) ListMaterials(context.Context) ([]entity.Material, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.catalogErr != nil {
		return nil, s.catalogErr
	}
	return append([]entity.Material(nil), s.materials...), nil
}

func (s *memStore) ListByWarehouse(_ context.Context, warehouseID string) ([]entity.StockEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.StockEntry(nil), s.stock[warehouseID]...), nil
}

func (s *memStore) ListByMaterial(_ context.Context, materialID string) ([]entity.Format, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.formatCalls[materialID]++
	return append([]entity.Format(nil), s.formats[materialID]...), nil
}

func (s *memStore) lot(id string) entity.Lot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lots[id]
}

func (s *memStore) registro(id string) entity.Registro {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registros[id]
}

func (s *memStore) allocationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.allocations)
}

// lotRepo / registroRepo / allocationRepo separan los métodos con nombres repetidos entre puertos.
type lotRepo struct{ s *memStore }

func (r lotRepo) ListAvailable(_ context.Context, warehouseID, materialID string) ([]entity.Lot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Lot
	for _, l := range r.s.lots {
		if l.WarehouseID == warehouseID && l.MaterialID == materialID && l.UnitsAvailable.IsPositive() {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r lotRepo) GetByID(_ context.Context, id string) (*entity.Lot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.lots[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &l, nil
}

func (r lotRepo) GetForUpdate(ctx context.Context, id string) (*entity.Lot, error) {
	return r.GetByID(ctx, id)
}

func (r lotRepo) UpdateUnitsAvailable(_ context.Context, id string, units decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.lots[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.UnitsAvailable = units
	r.s.lots[id] = l
	return nil
}

type registroRepo struct{ s *memStore }

func (r registroRepo) GetByID(_ context.Context, id string) (*entity.Registro, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reg, ok := r.s.registros[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &reg, nil
}

func (r registroRepo) GetForUpdate(ctx context.Context, id string) (*entity.Registro, error) {
	return r.GetByID(ctx, id)
}

func (r registroRepo) ListByOrder(_ context.Context, orderID string) ([]entity.Registro, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Registro
	for _, id := range sortedKeys(r.s.registros) {
		if reg := r.s.registros[id]; reg.OrderID == orderID {
			out = append(out, reg)
		}
	}
	return out, nil
}

func (r registroRepo) UpdateQuantityUsed(_ context.Context, id string, used decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.updateUsedErrs[id]; err != nil {
		return err
	}
	reg, ok := r.s.registros[id]
	if !ok {
		return domain.ErrNotFound
	}
	reg.QuantityUsed = used
	r.s.registros[id] = reg
	return nil
}

type allocationRepo struct{ s *memStore }

func (r allocationRepo) Create(_ context.Context, line *entity.AllocationLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := allocKey(line.RegistroID, line.LotID)
	if existing, ok := r.s.allocations[key]; ok {
		existing.QuantityUsed = existing.QuantityUsed.Add(line.QuantityUsed)
		r.s.allocations[key] = existing
		return nil
	}
	r.s.allocations[key] = *line
	return nil
}

func (r allocationRepo) Get(_ context.Context, registroID, lotID string) (*entity.AllocationLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.allocations[allocKey(registroID, lotID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &l, nil
}

func (r allocationRepo) Delete(_ context.Context, registroID, lotID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := allocKey(registroID, lotID)
	if _, ok := r.s.allocations[key]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.allocations, key)
	return nil
}

func (r allocationRepo) ListByRegistro(_ context.Context, registroID string) ([]entity.AllocationLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.AllocationLine
	for _, l := range r.s.allocations {
		if l.RegistroID == registroID {
			out = append(out, l)
		}
	}
	return out, nil
}

// Run serializa las transacciones y restaura el estado si fn falla.
func (s *memStore) Run(ctx context.Context, fn func(
	registros repository.RegistroRepository,
	lots repository.LotRepository,
	allocations repository.AllocationRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if hook := s.beforeTx; hook != nil {
		s.beforeTx = nil
		hook()
	}

	s.mu.Lock()
	lots := cloneMap(s.lots)
	registros := cloneMap(s.registros)
	allocations := cloneMap(s.allocations)
	s.mu.Unlock()

	if err := fn(registroRepo{s}, lotRepo{s}, allocationRepo{s}); err != nil {
		s.mu.Lock()
		s.lots, s.registros, s.allocations = lots, registros, allocations
		s.mu.Unlock()
		return err
	}
	return nil
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var errBoom = errors.New("conexión perdida")

// recordingMetrics registra las llamadas a Metrics.
type recordingMetrics struct {
	mu        sync.Mutex
	accepted  int
	adjusted  int
	rejected  []string
	batches   []int
	reversals int
}

func (m *recordingMetrics) SearchServed(bool) {}

func (m *recordingMetrics) AllocationAccepted(adjusted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accepted++
	if adjusted {
		m.adjusted++
	}
}

func (m *recordingMetrics) AllocationRejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected = append(m.rejected, reason)
}

func (m *recordingMetrics) BatchCompleted(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, n)
}

func (m *recordingMetrics) ReversalApplied() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reversals++
}

func (m *recordingMetrics) LoadDuration(string, time.Duration) {}
