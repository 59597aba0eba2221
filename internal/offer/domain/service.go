package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/offerdesk/offerdesk/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("offer_not_found")
	ErrInvalidInput = errors.New("invalid_offer_input")
	ErrSendFailed   = errors.New("offer_send_failed")
	ErrRenderFailed = errors.New("offer_render_failed")
	ErrSweepFailed  = errors.New("offer_sweep_failed")
	ErrTokenExpired = errors.New("public_token_expired")
)

type OfferItemRequest struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	VatRate     decimal.Decimal `json:"vat_rate"`
}

type CreateOfferRequest struct {
	CustomerName    string             `json:"customer_name"`
	CustomerEmail   string             `json:"customer_email"`
	CustomerPhone   *string            `json:"customer_phone,omitempty"`
	CustomerAddress string             `json:"customer_address"`
	OfferDate       time.Time          `json:"offer_date"`
	DueDate         *time.Time         `json:"due_date,omitempty"`
	Currency        Currency           `json:"currency"`
	Notes           *string            `json:"notes,omitempty"`
	Items           []OfferItemRequest `json:"items"`
}

type UpdateOfferRequest struct {
	CustomerName    string             `json:"customer_name"`
	CustomerEmail   string             `json:"customer_email"`
	CustomerPhone   *string            `json:"customer_phone,omitempty"`
	CustomerAddress string             `json:"customer_address"`
	OfferDate       time.Time          `json:"offer_date"`
	DueDate         *time.Time         `json:"due_date,omitempty"`
	Currency        Currency           `json:"currency"`
	Notes           *string            `json:"notes,omitempty"`
	Items           []OfferItemRequest `json:"items"`
}

type Service interface {
	// Create runs the quota preconditions, snapshots the customer fields,
	// assigns the next offer number and increments the tenant's counter.
	Create(ctx context.Context, req CreateOfferRequest) (Offer, error)
	// GetByID is company-scoped and performs no expiration sweep.
	GetByID(ctx context.Context, id snowflake.ID) (Offer, error)
	// ListByCompany sweeps overdue offers to Expired before reading the page.
	ListByCompany(ctx context.Context, page pagination.Pagination) ([]Offer, error)
	ListByUser(ctx context.Context, page pagination.Pagination) ([]Offer, error)
	// Update replaces the whole item set; item writes are all-or-nothing.
	Update(ctx context.Context, id snowflake.ID, req UpdateOfferRequest) (Offer, error)
	Delete(ctx context.Context, id snowflake.ID) error

	// Send emails the rendered PDF to the snapshot customer address and
	// advances Draft offers to Sent only when dispatch succeeded.
	Send(ctx context.Context, id snowflake.ID) error
	Accept(ctx context.Context, id snowflake.ID) error
	Reject(ctx context.Context, id snowflake.ID) error
	Cancel(ctx context.Context, id snowflake.ID) error

	// GetPDF renders the offer; fetching a Sent offer marks it Viewed.
	GetPDF(ctx context.Context, id snowflake.ID) ([]byte, string, error)
	GetPublic(ctx context.Context, token string) (Offer, error)
	GetPublicPDF(ctx context.Context, token string) ([]byte, string, error)

	// SweepExpired is the named, idempotent expiration pass invoked by the
	// list read paths.
	SweepExpired(ctx context.Context, companyID snowflake.ID, now time.Time) (int64, error)
}
