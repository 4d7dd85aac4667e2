package pdf

import (
	"context"
	"fmt"

	invoicedomain "github.com/fakturo/fakturo/internal/invoice/domain"
	orgdomain "github.com/fakturo/fakturo/internal/organization/domain"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	marotocfg "github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type Maroto struct{}

func NewMaroto() *Maroto { return &Maroto{} }

func (p *Maroto) RenderInvoice(ctx context.Context, org *orgdomain.Organization, invoice *invoicedomain.Invoice) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := marotocfg.NewBuilder().
		WithLeftMargin(15).
		WithRightMargin(15).
		Build()
	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(8, org.Name, props.Text{Size: 16, Style: fontstyle.Bold}),
		text.NewCol(4, fmt.Sprintf("Invoice %s", invoice.Number), props.Text{Size: 12, Align: align.Right}),
	)
	m.AddRow(6,
		text.NewCol(8, org.SupportEmail, props.Text{Size: 9}),
		text.NewCol(4, fmt.Sprintf("Status: %s", invoice.Status), props.Text{Size: 9, Align: align.Right}),
	)
	if invoice.IssuedAt != nil {
		m.AddRow(6,
			col.New(8),
			text.NewCol(4, "Issued: "+invoice.IssuedAt.Format("2006-01-02"), props.Text{Size: 9, Align: align.Right}),
		)
	}
	if invoice.DueAt != nil {
		m.AddRow(6,
			col.New(8),
			text.NewCol(4, "Due: "+invoice.DueAt.Format("2006-01-02"), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(10, text.NewCol(12, "Billed to: "+invoice.CustomerName, props.Text{Size: 10, Top: 3}))

	m.AddRow(4, line.NewCol(12))
	m.AddRow(8,
		text.NewCol(5, "Item", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(2, "Qty", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Unit", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(3, "Amount", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
	for _, item := range invoice.Items {
		m.AddRow(7,
			text.NewCol(5, item.Name, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", item.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, formatMinor(item.UnitAmount, item.Currency), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(3, formatMinor(item.Amount(), item.Currency), props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(4, line.NewCol(12))
	m.AddRow(9,
		col.New(7),
		text.NewCol(2, "Total", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(3, formatMinor(invoice.TotalAmount, invoice.Currency), props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
	)

	if invoice.PaymentURL != "" {
		m.AddRows(row.New(10).Add(
			text.NewCol(12, "Pay online: "+invoice.PaymentURL, props.Text{Size: 9, Top: 4}),
		))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

func formatMinor(minor int64, currency string) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, minor/100, minor%100, currency)
}
