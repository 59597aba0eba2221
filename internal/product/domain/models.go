package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry scoped to one company. Names are unique per
// company with a case-sensitive exact match, checked as a service
// precondition rather than relying on the database constraint alone.
type Product struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	CompanyID   snowflake.ID    `gorm:"not null;index" json:"company_id"`
	Name        string          `gorm:"type:text;not null" json:"name"`
	Description *string         `gorm:"type:text" json:"description,omitempty"`
	Category    *string         `gorm:"type:text" json:"category,omitempty"`
	Price       decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"price"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Product) TableName() string { return "products" }
