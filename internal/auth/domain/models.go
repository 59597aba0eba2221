// Package domain holds the authentication types: credentials flows,
// issued token pairs and the persisted refresh token.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// RefreshToken is a stored, revocable grant for re-issuing access tokens.
// Tokens are rotated on every refresh; logout revokes the presented one.
type RefreshToken struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID `gorm:"not null;index" json:"user_id"`
	Token     string       `gorm:"type:text;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time    `gorm:"not null" json:"expires_at"`
	Revoked   bool         `gorm:"not null;default:false" json:"revoked"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
}

// TableName sets the database table name.
func (RefreshToken) TableName() string { return "refresh_tokens" }
