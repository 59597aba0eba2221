package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, user *User) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*User, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*User, error)
	ListByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]User, error)
	CountByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (int64, error)
	Update(ctx context.Context, db *gorm.DB, user *User) error
	Delete(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (bool, error)
}
