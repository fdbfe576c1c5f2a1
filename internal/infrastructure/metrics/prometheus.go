// Package metrics implementa las métricas del motor de insumos con Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appinsumo "github.com/jhoicas/insumos-api/internal/application/insumo"
)

var _ appinsumo.Metrics = (*Prometheus)(nil)

// Prometheus contadores e histogramas sobre un registry propio.
type Prometheus struct {
	registry   *prometheus.Registry
	searches   *prometheus.CounterVec
	accepted   *prometheus.CounterVec
	rejected   *prometheus.CounterVec
	batches    prometheus.Histogram
	reversals  prometheus.Counter
	loadTiming *prometheus.HistogramVec
}

// NewPrometheus registra las métricas bajo el namespace indicado.
func NewPrometheus(namespace string) *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	p := &Prometheus{
		registry: reg,
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "option_searches_total",
			Help:      "Búsquedas de opciones de insumos servidas.",
		}, []string{"grouped"}),
		accepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "allocations_accepted_total",
			Help:      "Asignaciones de bultos comprometidas.",
		}, []string{"adjusted"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "allocations_rejected_total",
			Help:      "Asignaciones rechazadas por motivo.",
		}, []string{"reason"}),
		batches: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "allocation_batch_registros",
			Help:      "Registros comprometidos por asignación masiva.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50},
		}),
		reversals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reversals_applied_total",
			Help:      "Reversiones de asignación aplicadas.",
		}),
		loadTiming: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Duración de cargas de catálogo y stock.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
	}
	reg.MustRegister(p.searches, p.accepted, p.rejected, p.batches, p.reversals, p.loadTiming)
	return p
}

func (p *Prometheus) SearchServed(grouped bool) {
	p.searches.WithLabelValues(strconv.FormatBool(grouped)).Inc()
}

func (p *Prometheus) AllocationAccepted(adjusted bool) {
	p.accepted.WithLabelValues(strconv.FormatBool(adjusted)).Inc()
}

func (p *Prometheus) AllocationRejected(reason string) {
	p.rejected.WithLabelValues(reason).Inc()
}

func (p *Prometheus) BatchCompleted(registros int) {
	p.batches.Observe(float64(registros))
}

func (p *Prometheus) ReversalApplied() {
	p.reversals.Inc()
}

func (p *Prometheus) LoadDuration(source string, d time.Duration) {
	p.loadTiming.WithLabelValues(source).Observe(d.Seconds())
}

// Handler expone el registry en formato de texto de Prometheus.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Registry para tests y colectores adicionales.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}
