package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/offerdesk/offerdesk/internal/offer/domain"
	"github.com/offerdesk/offerdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, offer *domain.Offer) error {
	return db.WithContext(ctx).Create(offer).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.Offer, error) {
	var offer domain.Offer
	err := db.WithContext(ctx).
		Preload("Items").
		Where("company_id = ? AND id = ?", companyID, id).
		First(&offer).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &offer, nil
}

func (r *repo) FindByIDForUser(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*domain.Offer, error) {
	var offer domain.Offer
	err := db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ? AND id = ?", userID, id).
		First(&offer).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &offer, nil
}

func (r *repo) FindByPublicToken(ctx context.Context, db *gorm.DB, token string) (*domain.Offer, error) {
	var offer domain.Offer
	err := db.WithContext(ctx).
		Preload("Items").
		Where("public_token = ?", token).
		First(&offer).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &offer, nil
}

func (r *repo) FindLastByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (*domain.Offer, error) {
	var offer domain.Offer
	err := db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("id desc").
		First(&offer).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &offer, nil
}

func (r *repo) ListByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID, page pagination.Pagination) ([]domain.Offer, error) {
	var offers []domain.Offer
	page = page.Normalize()
	err := db.WithContext(ctx).
		Preload("Items").
		Where("company_id = ?", companyID).
		Order("created_at desc, id desc").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&offers).Error
	if err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *repo) ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID, page pagination.Pagination) ([]domain.Offer, error) {
	var offers []domain.Offer
	page = page.Normalize()
	err := db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&offers).Error
	if err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, offer *domain.Offer) error {
	return db.WithContext(ctx).
		Omit("Items").
		Save(offer).Error
}

func (r *repo) ReplaceItems(ctx context.Context, db *gorm.DB, offerID snowflake.ID, items []domain.OfferItem) error {
	if err := db.WithContext(ctx).
		Where("offer_id = ?", offerID).
		Delete(&domain.OfferItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (bool, error) {
	res := db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&domain.Offer{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) ExpireOverdueByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Offer{}).
		Where("company_id = ? AND due_date IS NOT NULL AND due_date < ? AND status IN ?", companyID, now, domain.SweepableStatuses).
		Updates(map[string]any{"status": domain.StatusExpired, "updated_at": now})
	return res.RowsAffected, res.Error
}

func (r *repo) ExpireOverdueByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Offer{}).
		Where("user_id = ? AND due_date IS NOT NULL AND due_date < ? AND status IN ?", userID, now, domain.SweepableStatuses).
		Updates(map[string]any{"status": domain.StatusExpired, "updated_at": now})
	return res.RowsAffected, res.Error
}
