package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/offerdesk/offerdesk/pkg/tenantctx"
)

// User is an account inside one company. SuperAdmin accounts sit outside
// tenant scope and carry a zero CompanyID.
type User struct {
	ID           snowflake.ID   `gorm:"primaryKey" json:"id"`
	CompanyID    snowflake.ID   `gorm:"index" json:"company_id"`
	FirstName    string         `gorm:"type:text;not null" json:"first_name"`
	LastName     string         `gorm:"type:text;not null" json:"last_name"`
	Email        string         `gorm:"type:text;not null;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"type:text;not null" json:"-"`
	Role         tenantctx.Role `gorm:"type:text;not null;default:User" json:"role"`
	IsActive     bool           `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
