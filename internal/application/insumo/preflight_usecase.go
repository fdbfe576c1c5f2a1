package insumo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/insumos-api/internal/application/dto"
	"github.com/jhoicas/insumos-api/internal/domain/insumo"
	"github.com/jhoicas/insumos-api/pkg/logger"
)

// PreflightUseCase verifica la disponibilidad de ingredientes e insumos de formato antes
// de crear una orden de producción.
type PreflightUseCase struct {
	reports ReportGenerator
	log     *logger.Logger
}

// NewPreflightUseCase construye el caso de uso. reports puede ser nil si no se exponen reportes PDF.
func NewPreflightUseCase(reports ReportGenerator, log *logger.Logger) *PreflightUseCase {
	return &PreflightUseCase{reports: reports, log: log.Component("preflight")}
}

// Check devuelve los faltantes. Si hay faltantes y no se pidió omitir la validación,
// devuelve también *insumo.MissingInsumosError junto a la respuesta.
func (uc *PreflightUseCase) Check(_ context.Context, in dto.PreflightInput) (*dto.PreflightResponse, error) {
	missing, err := insumo.CheckOrder(in.Ingredients, in.Formats, in.SkipValidation)
	out := &dto.PreflightResponse{
		Missing:   missing,
		CanCreate: err == nil,
		Skipped:   in.SkipValidation && len(missing) > 0,
	}
	if err != nil {
		uc.log.Info().Int("missing", len(missing)).Msg("orden bloqueada por faltantes")
		return out, err
	}
	if out.Skipped {
		uc.log.Warn().Int("missing", len(missing)).Msg("orden creada omitiendo la validación de faltantes")
	}
	return out, nil
}

// Report genera el PDF con los faltantes de la orden.
func (uc *PreflightUseCase) Report(ctx context.Context, title string, in dto.PreflightInput) ([]byte, error) {
	if uc.reports == nil {
		return nil, errors.New("generador de reportes no configurado")
	}
	missing := insumo.AggregateMissing(in.Ingredients, in.Formats)
	pdf, err := uc.reports.MissingInsumosPDF(ctx, title, missing)
	if err != nil {
		uc.log.Error().Err(err).Msg("no se pudo generar el reporte de faltantes")
		return nil, fmt.Errorf("generar reporte: %w", err)
	}
	return pdf, nil
}
