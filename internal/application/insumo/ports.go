package insumo

import (
	"context"
	"time"

	"github.com/jhoicas/insumos-api/internal/domain/insumo"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

// AllocationTxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza que una asignación o reversión se aplique completa o no se aplique.
type AllocationTxRunner interface {
	Run(ctx context.Context, fn func(
		registros repository.RegistroRepository,
		lots repository.LotRepository,
		allocations repository.AllocationRepository,
	) error) error
}

// Metrics contadores del motor (implementado con Prometheus en infraestructura).
type Metrics interface {
	SearchServed(grouped bool)
	AllocationAccepted(adjusted bool)
	AllocationRejected(reason string)
	BatchCompleted(registros int)
	ReversalApplied()
	LoadDuration(source string, d time.Duration)
}

// ReportGenerator genera el reporte PDF de faltantes de una orden.
type ReportGenerator interface {
	MissingInsumosPDF(ctx context.Context, title string, items []insumo.MissingItem) ([]byte, error)
}

// NopMetrics implementación vacía de Metrics.
type NopMetrics struct{}

func (NopMetrics) SearchServed(bool)                  {}
func (NopMetrics) AllocationAccepted(bool)            {}
func (NopMetrics) AllocationRejected(string)          {}
func (NopMetrics) BatchCompleted(int)                 {}
func (NopMetrics) ReversalApplied()                   {}
func (NopMetrics) LoadDuration(string, time.Duration) {}
