package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/offerdesk/offerdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	// Insert persists the offer together with its items.
	Insert(ctx context.Context, db *gorm.DB, offer *Offer) error
	FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*Offer, error)
	FindByIDForUser(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*Offer, error)
	FindByPublicToken(ctx context.Context, db *gorm.DB, token string) (*Offer, error)
	// FindLastByCompany returns the tenant's most recently created offer by
	// id order, feeding the number generator.
	FindLastByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (*Offer, error)
	ListByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID, page pagination.Pagination) ([]Offer, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID, page pagination.Pagination) ([]Offer, error)
	Update(ctx context.Context, db *gorm.DB, offer *Offer) error
	// ReplaceItems swaps the full item set of an offer.
	ReplaceItems(ctx context.Context, db *gorm.DB, offerID snowflake.ID, items []OfferItem) error
	Delete(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (bool, error)

	// ExpireOverdueByCompany flips every company offer with a past due date
	// and a sweepable status to Expired, in one batch update.
	ExpireOverdueByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID, now time.Time) (int64, error)
	ExpireOverdueByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID, now time.Time) (int64, error)
}
