package domain

import "github.com/shopspring/decimal"

// ItemTotal is the persisted line total: quantity x unit price. The line's
// discount and VAT rates are deliberately excluded here.
func ItemTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// SumItems is the persisted offer total: the sum of the item TotalPrices.
func SumItems(items []OfferItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalPrice)
	}
	return total
}

// Breakdown is the presentation-layer aggregation. It applies the discount
// and VAT rates the persisted totals ignore, and is computed independently
// of TotalAmount: the two are not reconciled against each other.
type Breakdown struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	VatAmount      decimal.Decimal `json:"vat_amount"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
}

// ComputeBreakdown derives the display totals for an offer's items:
// subtotal before discount, the discounted amount, VAT on the stored line
// totals, and (subtotal - discount) + VAT.
func ComputeBreakdown(items []OfferItem) Breakdown {
	hundred := decimal.NewFromInt(100)

	subtotal := decimal.Zero
	discount := decimal.Zero
	vat := decimal.Zero
	for _, item := range items {
		line := ItemTotal(item.Quantity, item.UnitPrice)
		subtotal = subtotal.Add(line)
		discount = discount.Add(line.Mul(item.Discount).Div(hundred))
		vat = vat.Add(item.TotalPrice.Mul(item.VatRate).Div(hundred))
	}

	return Breakdown{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		VatAmount:      vat,
		GrandTotal:     subtotal.Sub(discount).Add(vat),
	}
}
