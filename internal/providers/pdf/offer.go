package pdf

import (
	"context"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateOffer(ctx context.Context, data OfferData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Sayfa {current} / {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	// Letterhead
	if data.LogoPath != "" {
		m.AddRow(30,
			image.NewFromFileCol(3, data.LogoPath, props.Rect{
				Center:  false,
				Percent: 80,
			}),
			col.New(9),
		)
	}

	m.AddRow(10,
		text.NewCol(8, data.CompanyName, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, "TEKLİF", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	m.AddRow(24,
		col.New(7).Add(
			text.New(data.CompanyAddress, props.Text{Size: 9}),
			text.New(data.CompanyPhone, props.Text{Size: 9, Top: 4}),
			text.New(data.CompanyEmail, props.Text{Size: 9, Top: 8}),
			text.New(data.CompanyTaxNo, props.Text{Size: 9, Top: 12}),
		),
		col.New(5).Add(
			text.New("Teklif No: "+data.OfferNumber, props.Text{Size: 9, Align: align.Right}),
			text.New("Tarih: "+data.OfferDate, props.Text{Size: 9, Top: 4, Align: align.Right}),
			text.New("Geçerlilik: "+data.DueDate, props.Text{Size: 9, Top: 8, Align: align.Right}),
		),
	)

	// Customer block
	m.AddRow(6,
		text.NewCol(12, "Müşteri", props.Text{Style: fontstyle.Bold, Size: 10}),
	)
	m.AddRow(24,
		col.New(12).Add(
			text.New(data.CustomerName, props.Text{Size: 9}),
			text.New(data.CustomerCompany, props.Text{Size: 9, Top: 4}),
			text.New(data.CustomerEmail, props.Text{Size: 9, Top: 8}),
			text.New(data.CustomerPhone, props.Text{Size: 9, Top: 12}),
			text.New(data.CustomerAddress, props.Text{Size: 9, Top: 16}),
		),
	)

	// Table header
	m.AddRow(8,
		text.NewCol(4, "Açıklama", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(1, "Miktar", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Birim Fiyat", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "İskonto %", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(1, "KDV %", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Toplam", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(2, line.NewCol(12))

	for _, item := range data.Items {
		m.AddRow(8,
			text.NewCol(4, item.Description, props.Text{Size: 9}),
			text.NewCol(1, fmt.Sprintf("%d", item.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.Discount, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(1, item.VatRate, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.Total, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(2, line.NewCol(12))

	// Totals
	m.AddRow(8,
		col.New(7),
		text.NewCol(3, "Ara Toplam", props.Text{Size: 9}),
		text.NewCol(2, data.Subtotal, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(7),
		text.NewCol(3, "İskonto", props.Text{Size: 9}),
		text.NewCol(2, data.DiscountAmount, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(7),
		text.NewCol(3, "KDV", props.Text{Size: 9}),
		text.NewCol(2, data.VatAmount, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(7),
		text.NewCol(3, "Genel Toplam", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(2, data.GrandTotal, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)

	if data.Notes != "" {
		m.AddRow(6,
			text.NewCol(12, "Notlar", props.Text{Style: fontstyle.Bold, Size: 9, Top: 4}),
		)
		m.AddRow(14,
			text.NewCol(12, data.Notes, props.Text{Size: 9}),
		)
	}

	if data.CompanyIBAN != "" {
		m.AddRow(10,
			text.NewCol(12, "IBAN: "+data.CompanyIBAN, props.Text{Size: 9, Top: 4}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return doc.GetBytes(), nil
}
