package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, company *Company) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Company, error)
	Update(ctx context.Context, db *gorm.DB, company *Company) error
	ListAll(ctx context.Context, db *gorm.DB) ([]Company, error)

	InsertPayment(ctx context.Context, db *gorm.DB, payment *Payment) error
	ListPayments(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]Payment, error)
	ListAllPayments(ctx context.Context, db *gorm.DB) ([]Payment, error)
}
