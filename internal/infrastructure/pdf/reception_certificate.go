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

// GenerateReceptionCertificate genera el certificado de recepción de un
// lote y devuelve sus bytes.
func (g *DocumentGenerator) GenerateReceptionCertificate(_ context.Context, cert *export.ReceptionCertificate) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Certificado de recepción "+cert.Lot.LotNumber, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(certHeaderRow(cert))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(certProductRow(cert))
	m.AddRows(certDatesRow(cert))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(certDistributionHeaderRow())
	for _, r := range certDistributionRows(cert.Distribution) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(certFooterRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar certificado: %w", err)
	}
	return doc.GetBytes(), nil
}

func certHeaderRow(cert *export.ReceptionCertificate) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("CERTIFICADO DE RECEPCIÓN", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Lote "+cert.Lot.LotNumber, props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 9,
			}),
		),
		col.New(5).Add(
			text.New("Alta: "+cert.Lot.CreatedAt.Format("02/01/2006"), props.Text{
				Size: 9, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func certProductRow(cert *export.ReceptionCertificate) core.Row {
	p := cert.Product
	return row.New(14).Add(
		col.New(12).Add(
			text.New("PRODUCTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s (%s)", p.Name, p.Code), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
		),
	)
}

func certDatesRow(cert *export.ReceptionCertificate) core.Row {
	l := cert.Lot
	expiration := "—"
	if l.ExpirationDate != nil {
		expiration = l.ExpirationDate.Format("02/01/2006")
	}
	detail := fmt.Sprintf(
		"Cantidad recibida: %s %s   |   Fabricación: %s   |   Caducidad: %s   |   Estado: %s",
		l.InitialQuantity.String(), l.Unit,
		l.ManufacturingDate.Format("02/01/2006"),
		expiration,
		l.Status(),
	)
	return row.New(8).Add(
		col.New(12).Add(text.New(detail, props.Text{Size: 8, Top: 2, Color: colorGray})),
	)
}

func certDistributionHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Ubicación", 3, align.Left),
		h("Nombre", 6, align.Left),
		h("Cantidad", 3, align.Right),
	)
}

func certDistributionRows(distribution []export.CertificateLocation) []core.Row {
	result := make([]core.Row, 0, len(distribution))
	for _, d := range distribution {
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(
				d.LocationCode,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(6).Add(text.New(
				d.LocationName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				d.Quantity.String(),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

func certFooterRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			"Este certificado acredita la entrada del lote en planta y su "+
				"distribución por ubicaciones en el momento de la emisión.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}
