// Package pdf implementa la generación del reporte PDF del taller que
// el panel admin descarga por GET /admin/reports/pdf.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────┐
//	│  HEADER: Taller + fecha de generación        │
//	│  ───────────────────────────────────────────│
//	│  RESUMEN: total de tickets / sin técnico     │
//	│  TABLAS: por estado usuario / interno /      │
//	│          prioridad                           │
//	│  TOTALES: facturado / abonado / saldo        │
//	└─────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"
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

	"github.com/tu-usuario/taller-tickets/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa mockserver.ReportPDFGenerator usando
// Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateReportPDF genera el PDF de estadísticas y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateReportPDF(_ context.Context, stats entity.ReportStats) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte del Taller", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow())
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(resumenRow(stats))
	m.AddRows(seccionConteo("Por estado (cliente)", stats.PorEstadoUsuario)...)
	m.AddRows(seccionConteo("Por estado (interno)", stats.PorEstadoInterno)...)
	m.AddRows(seccionConteo("Por prioridad", stats.PorPrioridad)...)
	m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(totalesRow(stats))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generar PDF del reporte: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow() core.Row {
	return row.New(12).Add(
		col.New(8).Add(
			text.New("Taller de Reparación — Reporte de tickets", props.Text{
				Size: 14, Style: fontstyle.Bold, Color: colorPrimary,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+time.Now().Format("2006-01-02 15:04"), props.Text{
				Size: 8, Align: align.Right, Color: colorGray,
			}),
		),
	)
}

func resumenRow(stats entity.ReportStats) core.Row {
	return row.New(10).Add(
		col.New(6).Add(
			text.New(fmt.Sprintf("Total de tickets: %d", stats.TotalTickets), props.Text{
				Size: 11, Style: fontstyle.Bold,
			}),
		),
		col.New(6).Add(
			text.New(fmt.Sprintf("Sin técnico asignado: %d", stats.TicketsSinTecnico), props.Text{
				Size: 11, Align: align.Right,
			}),
		),
	)
}

// seccionConteo arma un título más una fila por clave, en orden estable
// para que el PDF sea reproducible.
func seccionConteo(titulo string, conteo map[string]int) []core.Row {
	rows := []core.Row{
		row.New(8).Add(
			col.New(12).Add(text.New(titulo, props.Text{Size: 10, Style: fontstyle.Bold, Color: colorPrimary})),
		),
	}
	claves := make([]string, 0, len(conteo))
	for k := range conteo {
		claves = append(claves, k)
	}
	sort.Strings(claves)
	for _, k := range claves {
		rows = append(rows, row.New(6).Add(
			col.New(8).Add(text.New(k, props.Text{Size: 9})),
			col.New(4).Add(text.New(fmt.Sprintf("%d", conteo[k]), props.Text{Size: 9, Align: align.Right})),
		))
	}
	return rows
}

func totalesRow(stats entity.ReportStats) core.Row {
	saldo := stats.TotalFacturado.Sub(stats.TotalAbonado)
	return row.New(10).Add(
		col.New(4).Add(
			text.New("Facturado: $"+stats.TotalFacturado.StringFixed(2), props.Text{Size: 10, Style: fontstyle.Bold}),
		),
		col.New(4).Add(
			text.New("Abonado: $"+stats.TotalAbonado.StringFixed(2), props.Text{Size: 10}),
		),
		col.New(4).Add(
			text.New("Saldo: $"+saldo.StringFixed(2), props.Text{Size: 10, Align: align.Right, Color: colorPrimary}),
		),
	)
}
