package domain

import (
	"context"
	"errors"
	"io"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound            = errors.New("company_not_found")
	ErrInvalidInput        = errors.New("invalid_company_input")
	ErrInvalidPlan         = errors.New("invalid_subscription_plan")
	ErrQuotaExceeded       = errors.New("plan_limit_reached")
	ErrSubscriptionExpired = errors.New("subscription_expired")
	ErrLogoWriteFailed     = errors.New("logo_write_failed")
)

type UpdateCompanyRequest struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Phone     string  `json:"phone"`
	Email     string  `json:"email"`
	TaxNumber *string `json:"tax_number,omitempty"`
	IBAN      *string `json:"iban,omitempty"`
	Website   *string `json:"website,omitempty"`
}

type UpgradePlanRequest struct {
	Plan          SubscriptionPlan `json:"plan"`
	Amount        decimal.Decimal  `json:"amount"`
	TransactionID *string          `json:"transaction_id,omitempty"`
}

type RecordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	TransactionID *string         `json:"transaction_id,omitempty"`
}

type Service interface {
	// Get returns the caller's own company.
	Get(ctx context.Context) (Company, error)
	Update(ctx context.Context, req UpdateCompanyRequest) (Company, error)
	// UploadLogo stores the logo bytes and persists the public path.
	UploadLogo(ctx context.Context, filename string, content io.Reader) (string, error)

	// UpgradePlan records a payment, overwrites the plan and extends the
	// subscription one month from the payment instant. The admin console
	// passes an arbitrary company id, tenants their own.
	UpgradePlan(ctx context.Context, companyID snowflake.ID, req UpgradePlanRequest) (Company, error)
	// RecordPayment extends the subscription without touching the plan tier.
	RecordPayment(ctx context.Context, req RecordPaymentRequest) (Payment, error)
	ListPayments(ctx context.Context) ([]Payment, error)
}
