package insumo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/insumos-api/internal/application/dto"
	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/insumo"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
	"github.com/jhoicas/insumos-api/pkg/logger"
)

// CatalogUseCase resuelve opciones de insumos con stock y formatos de empaque.
// La única memoria entre llamadas es la caché de formatos por insumo.
type CatalogUseCase struct {
	catalogRepo repository.CatalogRepository
	stockRepo   repository.StockRepository
	formats     *insumo.FormatCache
	metrics     Metrics
	log         *logger.Logger
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(
	catalogRepo repository.CatalogRepository,
	stockRepo repository.StockRepository,
	formatRepo repository.FormatRepository,
	metrics Metrics,
	log *logger.Logger,
) *CatalogUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &CatalogUseCase{
		catalogRepo: catalogRepo,
		stockRepo:   stockRepo,
		formats:     insumo.NewFormatCache(formatRepo.ListByMaterial),
		metrics:     metrics,
		log:         log.Component("catalog"),
	}
}

// session snapshot de catálogo y stock por bodega para una sola llamada.
type session struct {
	materials []entity.Material
	stock     map[string]entity.StockMap
}

// loadSession obtiene el catálogo y el stock de cada bodega en paralelo.
func (uc *CatalogUseCase) loadSession(ctx context.Context, warehouseIDs ...string) (*session, error) {
	start := time.Now()
	s := &session{stock: make(map[string]entity.StockMap, len(warehouseIDs))}
	maps := make([]entity.StockMap, len(warehouseIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		materials, err := uc.catalogRepo.ListMaterials(gctx)
		if err != nil {
			return fmt.Errorf("cargar catálogo: %w", err)
		}
		s.materials = materials
		return nil
	})
	for i, wh := range warehouseIDs {
		g.Go(func() error {
			entries, err := uc.stockRepo.ListByWarehouse(gctx, wh)
			if err != nil {
				return fmt.Errorf("cargar stock de bodega %s: %w", wh, err)
			}
			maps[i] = entity.NewStockMap(entries)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		uc.log.Error().Err(err).Strs("warehouses", warehouseIDs).Msg("no se pudo cargar catálogo/stock")
		return nil, err
	}
	for i, wh := range warehouseIDs {
		s.stock[wh] = maps[i]
	}
	uc.metrics.LoadDuration("catalog_stock", time.Since(start))
	return s, nil
}

// Options devuelve las opciones activas del catálogo con el stock de la bodega,
// filtradas por query y opcionalmente agrupadas por categoría.
func (uc *CatalogUseCase) Options(ctx context.Context, warehouseID, query string, grouped bool) (*dto.OptionsResponse, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	s, err := uc.loadSession(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	options := insumo.FilterOptions(insumo.BuildOptions(s.materials, s.stock[warehouseID]), query)
	uc.metrics.SearchServed(grouped)

	out := &dto.OptionsResponse{WarehouseID: warehouseID, Total: len(options)}
	if grouped {
		out.Groups = insumo.GroupOptions(options)
	} else {
		out.Options = options
	}
	return out, nil
}

// Formats devuelve los formatos utilizables del insumo (caché por insumo) y el formato por defecto.
func (uc *CatalogUseCase) Formats(ctx context.Context, materialID string) (*dto.FormatsResponse, error) {
	if materialID == "" {
		return nil, domain.ErrInvalidInput
	}
	formats, err := uc.formats.Get(ctx, materialID)
	if err != nil {
		uc.log.Error().Err(err).Str("material_id", materialID).Msg("no se pudieron cargar formatos")
		return nil, fmt.Errorf("cargar formatos: %w", err)
	}
	out := &dto.FormatsResponse{MaterialID: materialID, Formats: make([]dto.FormatDTO, 0, len(formats))}
	for _, f := range formats {
		out.Formats = append(out.Formats, dto.FormatDTO{
			ID:                f.ID,
			Label:             f.Label,
			UnitsPerFormat:    f.UnitsPerFormat,
			IsConsumptionUnit: f.IsConsumptionUnit,
		})
	}
	if len(formats) > 0 {
		out.DefaultFormatID = formats[0].ID
	}
	return out, nil
}

// InvalidateFormats vacía la caché de formatos (cambio de bodega o catálogo).
// Con materialID no vacío solo descarta ese insumo.
func (uc *CatalogUseCase) InvalidateFormats(materialID string) {
	if materialID != "" {
		uc.formats.InvalidateMaterial(materialID)
		return
	}
	uc.formats.Invalidate()
	uc.log.Debug().Msg("caché de formatos invalidada")
}

// ValidateRequest evalúa cada fila del borrador contra el stock de la bodega origen y
// arma el payload con las filas válidas. Con bodega destino se adjunta su stock.
func (uc *CatalogUseCase) ValidateRequest(ctx context.Context, in dto.ValidateRequestInput) (*dto.ValidateRequestResponse, error) {
	if in.SourceWarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	warehouses := []string{in.SourceWarehouseID}
	if in.DestinationWarehouseID != "" && in.DestinationWarehouseID != in.SourceWarehouseID {
		warehouses = append(warehouses, in.DestinationWarehouseID)
	}
	s, err := uc.loadSession(ctx, warehouses...)
	if err != nil {
		return nil, err
	}
	units := make(map[string]entity.UnitType, len(s.materials))
	for _, m := range s.materials {
		units[m.ID] = m.Unit
	}
	stock := s.stock[in.SourceWarehouseID]

	out := &dto.ValidateRequestResponse{
		Rows:    make([]insumo.RowResult, 0, len(in.Lines)),
		Payload: []dto.PayloadLine{},
	}
	for _, l := range in.Lines {
		line := entity.RequestLine{
			MaterialID:     l.MaterialID,
			FormatID:       l.FormatID,
			FormatQuantity: l.FormatQuantity,
			Comment:        l.Comment,
		}
		var formats []entity.Format
		if line.MaterialID != "" {
			formats, err = uc.formats.Get(ctx, line.MaterialID)
			if err != nil {
				return nil, fmt.Errorf("cargar formatos de %s: %w", line.MaterialID, err)
			}
		}
		row := insumo.EvaluateRow(line, units[line.MaterialID], formats, stock)
		out.Rows = append(out.Rows, row)
		if row.Valid() {
			out.Payload = append(out.Payload, dto.PayloadLine{
				MaterialID:     row.MaterialID,
				FormatID:       row.FormatID,
				FormatQuantity: row.FormatQuantity,
				BaseQuantity:   row.BaseQuantity,
				Comment:        row.Comment,
			})
		}
	}
	out.Valid = len(in.Lines) > 0 && len(out.Payload) == len(in.Lines)

	if dest, ok := s.stock[in.DestinationWarehouseID]; ok && in.DestinationWarehouseID != in.SourceWarehouseID {
		out.DestinationStock = make(map[string]decimal.Decimal, len(in.Lines))
		for _, l := range in.Lines {
			if l.MaterialID != "" {
				out.DestinationStock[l.MaterialID] = dest.Get(l.MaterialID)
			}
		}
	}
	return out, nil
}
