package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("product_not_found")
	ErrInvalidInput  = errors.New("invalid_product_input")
	ErrDuplicateName = errors.New("duplicate_product_name")
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*Product, error)
	FindByName(ctx context.Context, db *gorm.DB, companyID snowflake.ID, name string) (*Product, error)
	ListByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]Product, error)
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	Delete(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (bool, error)
}

type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Category    *string         `json:"category,omitempty"`
	Price       decimal.Decimal `json:"price"`
}

type UpdateProductRequest struct {
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Category    *string         `json:"category,omitempty"`
	Price       decimal.Decimal `json:"price"`
}

type Service interface {
	ListByCompany(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id snowflake.ID) (Product, error)
	Create(ctx context.Context, req CreateProductRequest) (Product, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateProductRequest) (Product, error)
	Delete(ctx context.Context, id snowflake.ID) error
}
