// Package domain contains the tenant model: a company, its subscription
// plan and usage counters, and the payments recorded against it.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// SubscriptionPlan is the tenant's plan tier.
type SubscriptionPlan string

const (
	PlanFree       SubscriptionPlan = "Free"
	PlanPro        SubscriptionPlan = "Pro"
	PlanEnterprise SubscriptionPlan = "Enterprise"
)

// Company is the tenant. Every other entity references it by CompanyID.
type Company struct {
	ID                    snowflake.ID     `gorm:"primaryKey" json:"id"`
	Name                  string           `gorm:"type:text;not null" json:"name"`
	Logo                  *string          `gorm:"type:text" json:"logo,omitempty"`
	Address               string           `gorm:"type:text;not null" json:"address"`
	Phone                 string           `gorm:"type:text;not null" json:"phone"`
	Email                 string           `gorm:"type:text;not null" json:"email"`
	TaxNumber             *string          `gorm:"type:text" json:"tax_number,omitempty"`
	IBAN                  *string          `gorm:"type:text" json:"iban,omitempty"`
	Website               *string          `gorm:"type:text" json:"website,omitempty"`
	SubscriptionPlan      SubscriptionPlan `gorm:"type:text;not null;default:Free" json:"subscription_plan"`
	OffersUsed            int              `gorm:"not null;default:0" json:"offers_used"`
	SubscriptionStartDate time.Time        `gorm:"not null" json:"subscription_start_date"`
	SubscriptionEndDate   *time.Time       `json:"subscription_end_date,omitempty"`
	IsActive              bool             `gorm:"not null" json:"is_active"`
	CreatedAt             time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time        `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Company) TableName() string { return "companies" }

// Payment is an immutable record of money received from a tenant.
// Rows are only ever inserted, never updated or deleted.
type Payment struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	CompanyID     snowflake.ID    `gorm:"not null;index" json:"company_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	PaidAt        time.Time       `gorm:"not null" json:"paid_at"`
	TransactionID *string         `gorm:"type:text" json:"transaction_id,omitempty"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }

// SubscriptionExpired reports whether the subscription end date has passed.
// Companies without an end date never expire.
func (c *Company) SubscriptionExpired(now time.Time) bool {
	return c.SubscriptionEndDate != nil && c.SubscriptionEndDate.Before(now)
}
