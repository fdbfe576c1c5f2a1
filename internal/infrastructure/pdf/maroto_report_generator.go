// Package pdf genera el reporte de faltantes de insumos de una orden de producción.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa  │  Orden + Fecha                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: N faltantes (ingredientes / formato)              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Insumo | Origen | Requerido | Disponible | Falta    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda                                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appinsumo "github.com/jhoicas/insumos-api/internal/application/insumo"
	"github.com/jhoicas/insumos-api/internal/domain/insumo"
)

var _ appinsumo.ReportGenerator = (*MarotoReportGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorAlert   = &props.Color{Red: 176, Green: 32, Blue: 32}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// MarotoReportGenerator implementa ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	company string
	now     func() time.Time
}

// NewMarotoReportGenerator construye el generador; company aparece en el encabezado.
func NewMarotoReportGenerator(company string) *MarotoReportGenerator {
	return &MarotoReportGenerator{company: company, now: time.Now}
}

// MissingInsumosPDF genera el reporte y devuelve sus bytes.
func (g *MarotoReportGenerator) MissingInsumosPDF(_ context.Context, title string, items []insumo.MissingItem) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Faltantes de insumos", true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(g.company, title, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(items))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	if len(items) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("No hay faltantes: la orden puede crearse.", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Center, Color: colorPrimary, Top: 2,
			}),
		)))
	} else {
		m.AddRows(tableHeaderRow())
		m.AddRows(tableRows(items)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Los ingredientes se comparan sin tolerancia; los insumos de formato opcionales no se reportan.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: empresa (izq) y orden + fecha (der).
func headerRow(company, title string, at time.Time) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(nonEmpty(company, "Planta de producción"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Reporte de faltantes de insumos", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(nonEmpty(title, "Orden sin identificar"), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func summaryRow(items []insumo.MissingItem) core.Row {
	var ingredients, formats int
	for _, it := range items {
		if it.Origin == insumo.OriginFormat {
			formats++
		} else {
			ingredients++
		}
	}
	color := colorPrimary
	if len(items) > 0 {
		color = colorAlert
	}
	return row.New(10).Add(col.New(12).Add(
		text.New(fmt.Sprintf("%d faltantes: %d ingredientes, %d insumos de formato", len(items), ingredients, formats),
			props.Text{Style: fontstyle.Bold, Size: 10, Color: color, Top: 2}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Insumo", 4, align.Left),
		h("Origen", 2, align.Center),
		h("Requerido", 2, align.Right),
		h("Disponible", 2, align.Right),
		h("Falta", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableRows una fila por faltante; Falta = requerido - disponible.
func tableRows(items []insumo.MissingItem) []core.Row {
	out := make([]core.Row, 0, len(items))
	for _, it := range items {
		short := it.Needed.Sub(it.Available)
		out = append(out, row.New(7).Add(
			col.New(4).Add(text.New(it.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(it.Origin, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(quantity(it.Needed.String(), it.Unit), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(quantity(it.Available.String(), it.Unit), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(quantity(short.String(), it.Unit), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1, Color: colorAlert,
			})),
		))
	}
	return out
}

func quantity(q, unit string) string {
	if unit == "" {
		return q
	}
	return q + " " + unit
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
