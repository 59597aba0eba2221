// Package domain contains the offer aggregate: the offer row, its items,
// the lifecycle status values, numbering and pricing rules.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Status is the offer lifecycle state. Transitions are a flat action model:
// any action endpoint may be invoked regardless of the current status, the
// only guarded edge being Sent -> Viewed on PDF reads.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusSent      Status = "Sent"
	StatusViewed    Status = "Viewed"
	StatusAccepted  Status = "Accepted"
	StatusRejected  Status = "Rejected"
	StatusExpired   Status = "Expired"
	StatusCancelled Status = "Cancelled"
)

// Currency is the offer's pricing currency.
type Currency string

const (
	CurrencyTRY Currency = "TRY"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// Offer is a priced quote sent to a customer. Customer fields are a snapshot
// taken at creation time, not a live reference to the Customer record.
type Offer struct {
	ID              snowflake.ID    `gorm:"primaryKey" json:"id"`
	CompanyID       snowflake.ID    `gorm:"not null;index" json:"company_id"`
	UserID          snowflake.ID    `gorm:"not null;index" json:"user_id"`
	OfferNumber     string          `gorm:"type:text;not null" json:"offer_number"`
	CustomerName    string          `gorm:"type:text;not null" json:"customer_name"`
	CustomerEmail   string          `gorm:"type:text;not null" json:"customer_email"`
	CustomerPhone   *string         `gorm:"type:text" json:"customer_phone,omitempty"`
	CustomerAddress string          `gorm:"type:text;not null" json:"customer_address"`
	OfferDate       time.Time       `gorm:"not null" json:"offer_date"`
	DueDate         *time.Time      `json:"due_date,omitempty"`
	Currency        Currency        `gorm:"type:text;not null;default:TRY" json:"currency"`
	Notes           *string         `gorm:"type:text" json:"notes,omitempty"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"total_amount"`
	Status          Status          `gorm:"type:text;not null;default:Draft" json:"status"`
	PublicToken     string          `gorm:"type:text;not null;uniqueIndex" json:"-"`
	TokenExpiresAt  *time.Time      `json:"-"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`

	Items []OfferItem `gorm:"foreignKey:OfferID;constraint:OnDelete:CASCADE" json:"items"`
}

// TableName sets the database table name.
func (Offer) TableName() string { return "offers" }

// OfferItem is one priced line of an offer. TotalPrice persists
// quantity x unit price; the discount and VAT rates are stored but only
// applied by the presentation breakdown.
type OfferItem struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	OfferID     snowflake.ID    `gorm:"not null;index" json:"offer_id"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Quantity    int             `gorm:"not null;default:1" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"unit_price"`
	Discount    decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"discount"`
	VatRate     decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"vat_rate"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"total_price"`
}

// TableName sets the database table name.
func (OfferItem) TableName() string { return "offer_items" }

// SweepableStatuses are the statuses the expiration sweep may move to Expired.
var SweepableStatuses = []Status{StatusDraft, StatusSent, StatusViewed}
