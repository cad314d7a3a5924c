// Package pdf genera el comprobante de compra en PDF.
//
// Layout de la página A5:
//
//	┌──────────────────────────────────────────┐
//	│  Tienda + COMPROBANTE  │  N° + Fecha      │
//	│  CLIENTE: nombre + email                   │
//	│  TABLA: Cant | Dulce | P.Unit | Total      │
//	│  TOTAL PAGADO                              │
//	│  QR con el id de la compra                 │
//	└──────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
)

var _ inventory.ReceiptGenerator = (*ReceiptGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 176, Green: 38, Blue: 96}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ReceiptGenerator implementa inventory.ReceiptGenerator usando Maroto v2.
type ReceiptGenerator struct {
	shopName string
}

// NewReceiptGenerator construye el generador; shopName encabeza el documento.
func NewReceiptGenerator(shopName string) *ReceiptGenerator {
	if shopName == "" {
		shopName = "Sweet Shop"
	}
	return &ReceiptGenerator{shopName: shopName}
}

// GenerateReceiptPDF genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) GenerateReceiptPDF(_ context.Context, data inventory.ReceiptData) ([]byte, error) {
	if data.User == nil {
		return nil, fmt.Errorf("pdf: comprobante sin usuario")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de compra", true).
		WithAuthor(g.shopName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(tableHeaderRow(), detailRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(data))
	m.AddRows(line.NewRow(4))
	m.AddRows(qrRow(data))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *ReceiptGenerator) headerRow(data inventory.ReceiptData) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(g.shopName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("COMPROBANTE DE COMPRA", props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("N° "+shortID(data.Purchase.ID), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+data.Purchase.PurchasedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func customerRow(data inventory.ReceiptData) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%s   |   %s", data.User.Name, data.User.Email), props.Text{Size: 9, Top: 6}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 2, align.Center),
		h("Dulce", 5, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Total", 3, align.Right),
	)
}

func detailRow(data inventory.ReceiptData) core.Row {
	p := data.Purchase
	return row.New(7).Add(
		col.New(2).Add(text.New(fmt.Sprintf("%d", p.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(5).Add(text.New(SweetLabel(data), props.Text{Size: 8, Top: 1})),
		col.New(2).Add(text.New(Money(UnitPrice(p.TotalPrice, p.Quantity)), props.Text{Size: 8, Align: align.Right, Top: 1})),
		col.New(3).Add(text.New(Money(p.TotalPrice), props.Text{Size: 8, Align: align.Right, Top: 1})),
	)
}

func totalRow(data inventory.ReceiptData) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL PAGADO:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2,
		})),
		col.New(3).Add(text.New(Money(data.Purchase.TotalPrice), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2,
		})),
	)
}

func qrRow(data inventory.ReceiptData) core.Row {
	return row.New(35).Add(
		col.New(4).Add(code.NewQr(data.Purchase.ID, props.Rect{Percent: 95, Center: true})),
		col.New(8).Add(
			text.New("Identificador de la compra:", props.Text{Size: 7, Top: 4, Left: 3, Color: colorGray}),
			text.New(data.Purchase.ID, props.Text{Size: 7, Top: 9, Left: 3}),
			text.New("Gracias por su compra.", props.Text{Style: fontstyle.Bold, Size: 9, Top: 18, Left: 3, Color: colorPrimary}),
		),
	)
}

// SweetLabel nombre del dulce, o una marca si fue eliminado del catálogo.
func SweetLabel(data inventory.ReceiptData) string {
	if data.Sweet == nil {
		return "(dulce eliminado)"
	}
	return data.Sweet.Name
}

// UnitPrice precio unitario vigente al momento de la compra, derivado del total registrado.
func UnitPrice(total decimal.Decimal, quantity int) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(quantity))).Round(2)
}

// Money formatea con separador de miles y dos decimales. Ej: 1234.5 → "$1,234.50".
func Money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return sign + "$" + string(buf) + "." + frac
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}
