package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Catalog     CatalogService
	Allocations AllocationService
	Preflight   PreflightService
	// Metrics handler de Prometheus; nil deshabilita /metrics.
	Metrics http.Handler
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")

	// Catálogo y borrador de solicitud
	insumoHandler := NewInsumoHandler(deps.Catalog)
	insumos := api.Group("/insumos")
	insumos.Get("/options", insumoHandler.Options)
	insumos.Post("/requests/validate", insumoHandler.ValidateRequest)
	insumos.Post("/cache/invalidate", insumoHandler.InvalidateCache)
	insumos.Get("/:id/formats", insumoHandler.Formats)

	// Asignación de bultos por registro
	allocationHandler := NewAllocationHandler(deps.Allocations)
	registros := api.Group("/registros")
	registros.Get("/:id/lots", allocationHandler.CandidateLots)
	registros.Get("/:id/allocations", allocationHandler.List)
	registros.Post("/:id/allocations", allocationHandler.Allocate)
	registros.Get("/:id/allocations/:lot_id/reversal", allocationHandler.PreviewReversal)
	registros.Delete("/:id/allocations/:lot_id", allocationHandler.Reverse)

	// Órdenes de producción
	orderHandler := NewOrderHandler(deps.Allocations, deps.Preflight)
	orders := api.Group("/orders")
	orders.Post("/preflight", orderHandler.Preflight)
	orders.Post("/preflight/report", orderHandler.PreflightReport)
	orders.Post("/:id/allocations", orderHandler.AllocateAll)
}
