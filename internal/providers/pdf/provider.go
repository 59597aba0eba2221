package pdf

import "context"

// OfferData carries the already-formatted values printed on an offer
// document. Amount fields are rendered as-is, the caller decides on
// currency symbols and decimal formatting.
type OfferData struct {
	CompanyName    string
	CompanyAddress string
	CompanyPhone   string
	CompanyEmail   string
	CompanyTaxNo   string
	CompanyIBAN    string
	LogoPath       string

	OfferNumber string
	OfferDate   string
	DueDate     string
	Status      string

	CustomerName    string
	CustomerCompany string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string

	Notes string

	Items []OfferItemData

	Subtotal       string
	DiscountAmount string
	VatAmount      string
	GrandTotal     string
}

type OfferItemData struct {
	Description string
	Quantity    int64
	UnitPrice   string
	Discount    string
	VatRate     string
	Total       string
}

type Provider interface {
	GenerateOffer(ctx context.Context, data OfferData) ([]byte, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) GenerateOffer(ctx context.Context, data OfferData) ([]byte, error) {
	return []byte{}, nil
}
