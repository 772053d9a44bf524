// Package pdf genera el comprobante imprimible de una entrega (Modelo 22).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Oficina de propiedades │  N° Modelo 22 + Fecha      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SOLICITANTE: Nombre + Departamento                          │
//	│  TABLA: N° | Descripción | Modelo | Serie | Unidad | Cant.   │
//	│  CLASIFICACIÓN: Permanente / Temporal                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FIRMAS: Entregó / Recibió            │  QR de verificación  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/Propiedades-api/internal/application/lifecycle"
	"github.com/jhoicas/Propiedades-api/internal/domain/entity"
)

var _ lifecycle.ReceiptGenerator = (*MarotoReceiptGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// MarotoReceiptGenerator implementa lifecycle.ReceiptGenerator usando Maroto v2.
type MarotoReceiptGenerator struct {
	institution string
}

// NewMarotoReceiptGenerator construye el generador. institution encabeza el documento.
func NewMarotoReceiptGenerator(institution string) *MarotoReceiptGenerator {
	return &MarotoReceiptGenerator{institution: nonEmpty(institution, "Property Office")}
}

// GenerateIssuanceReceipt genera el PDF y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateIssuanceReceipt(i *entity.Issuance) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Model 22 - "+i.PropertyNumber, true).
		WithAuthor(g.institution, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(g.headerRow(i))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(requesterRow(i))
	m.AddRows(tableHeaderRow(), itemRow(i))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(classificationRow(i))
	m.AddRows(line.NewRow(6))
	m.AddRows(signatureRow(i))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MarotoReceiptGenerator) headerRow(i *entity.Issuance) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.institution, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Property Issue Voucher", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("MODEL 22", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(i.Model22Number, "-"), props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7}),
			text.New("Fecha: "+i.IssuedAt.Format("02/01/2006"), props.Text{Size: 8, Align: align.Right, Top: 14, Color: colorGray}),
		),
	)
}

func requesterRow(i *entity.Issuance) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("ENTREGADO A", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(i.RequesterName, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New("Departamento: "+i.RequesterDepartment, props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("N°", 2, align.Left),
		h("Descripción", 4, align.Left),
		h("Modelo", 2, align.Left),
		h("Serie", 2, align.Left),
		h("Unidad", 1, align.Center),
		h("Cant.", 1, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func itemRow(i *entity.Issuance) core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	return row.New(8).Add(
		cell(i.PropertyNumber, 2, align.Left),
		cell(i.PropertyName, 4, align.Left),
		cell(nonEmpty(i.ModelNumber, "-"), 2, align.Left),
		cell(nonEmpty(i.SerialNumber, "-"), 2, align.Left),
		cell(i.Measurement, 1, align.Center),
		cell(fmt.Sprintf("%d", i.IssuedQuantity), 1, align.Right),
	)
}

func classificationRow(i *entity.Issuance) core.Row {
	label := "TEMPORARY"
	note := "Consumible o de uso temporal: no se registra en el inventario personal del solicitante."
	if i.IsPermanent {
		label = "PERMANENT"
		note = "Queda a cargo del solicitante hasta su devolución a la oficina de propiedades."
	}
	return row.New(12).Add(
		col.New(3).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2})),
		col.New(9).Add(text.New(note, props.Text{Size: 8, Color: colorGray, Top: 3})),
	)
}

// signatureRow: firmas de quien entrega y quien recibe + QR con los identificadores de la entrega.
func signatureRow(i *entity.Issuance) core.Row {
	qr := fmt.Sprintf("issuance:%s;request:%s;property:%s;qty:%d", i.ID, i.RequestID, i.PropertyNumber, i.IssuedQuantity)
	return row.New(40).Add(
		col.New(4).Add(
			text.New("Entregó", props.Text{Style: fontstyle.Bold, Size: 8, Top: 22}),
			text.New(i.IssuerName, props.Text{Size: 8, Top: 28, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Recibió", props.Text{Style: fontstyle.Bold, Size: 8, Top: 22}),
			text.New(i.RequesterName, props.Text{Size: 8, Top: 28, Color: colorGray}),
		),
		col.New(4).Add(code.NewQr(qr, props.Rect{Percent: 95, Center: true})),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
