package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	InsertToken(ctx context.Context, db *gorm.DB, token *RefreshToken) error
	FindToken(ctx context.Context, db *gorm.DB, token string) (*RefreshToken, error)
	RevokeToken(ctx context.Context, db *gorm.DB, token string) error
}
