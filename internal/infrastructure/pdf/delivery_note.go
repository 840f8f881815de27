// Package pdf genera los documentos de planta con Maroto v2: el albarán
// de entrega de un envío y el certificado de recepción de un lote.
//
// Layout del albarán (página A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Albarán + número  │  Fecha de envío                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DESTINATARIO: nombre, código, dirección y contacto         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Lote | Cantidad | Unidad | Caducidad     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PIE: notas + leyenda de trazabilidad                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	"github.com/tu-usuario/trazabilidad-pro/internal/application/export"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 90, Blue: 60}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ export.DocumentGenerator = (*DocumentGenerator)(nil)

// DocumentGenerator implementa export.DocumentGenerator usando Maroto v2.
type DocumentGenerator struct{}

// NewDocumentGenerator construye el generador.
func NewDocumentGenerator() *DocumentGenerator { return &DocumentGenerator{} }

// GenerateDeliveryNote genera el PDF del albarán y devuelve sus bytes.
func (g *DocumentGenerator) GenerateDeliveryNote(_ context.Context, note *export.DeliveryNote) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Albarán "+note.Shipment.ShipmentNumber, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(note))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(note))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(note.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(note) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título y número (izq), fecha de envío (der).
func headerRow(note *export.DeliveryNote) core.Row {
	date := note.Shipment.ShipmentDate.Format("02/01/2006")
	return row.New(16).Add(
		col.New(7).Add(
			text.New("ALBARÁN DE ENTREGA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(note.Shipment.ShipmentNumber, props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 9,
			}),
		),
		col.New(5).Add(
			text.New("Fecha de envío: "+date, props.Text{
				Size: 9, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

// customerRow: datos del destinatario.
func customerRow(note *export.DeliveryNote) core.Row {
	c := note.Customer
	return row.New(16).Add(
		col.New(12).Add(
			text.New("DESTINATARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s (%s)", c.Name, c.Code), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(c.Address, "—"),
				nonEmpty(c.Phone, "—"),
				nonEmpty(c.Email, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 5, align.Left),
		h("Lote", 3, align.Left),
		h("Cantidad", 2, align.Right),
		h("Caducidad", 2, align.Center),
	)
}

// tableLineRows: una fila por línea del envío.
func tableLineRows(lines []export.DeliveryNoteLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		expiration := "—"
		if l.ExpirationDate != nil {
			expiration = l.ExpirationDate.Format("02/01/2006")
		}
		result = append(result, row.New(7).Add(
			col.New(5).Add(text.New(
				l.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				l.LotNumber,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				l.Quantity.String()+" "+l.Unit,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				expiration,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
		))
	}
	return result
}

// footerRows: notas del envío y leyenda de trazabilidad.
func footerRows(note *export.DeliveryNote) []core.Row {
	var rows []core.Row
	if note.Shipment.Notes != "" {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Notas: "+note.Shipment.Notes, props.Text{
				Size: 8, Color: colorGray, Top: 2,
			}),
		)))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"Los números de lote de este albarán identifican el origen de cada "+
				"producto. Consérvelo para cualquier incidencia de calidad o retirada.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))
	return rows
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
