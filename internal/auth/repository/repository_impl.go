package repository

import (
	"context"

	"github.com/offerdesk/offerdesk/internal/auth/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertToken(ctx context.Context, db *gorm.DB, token *domain.RefreshToken) error {
	return db.WithContext(ctx).Create(token).Error
}

func (r *repo) FindToken(ctx context.Context, db *gorm.DB, token string) (*domain.RefreshToken, error) {
	var rt domain.RefreshToken
	err := db.WithContext(ctx).Where("token = ?", token).First(&rt).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rt, nil
}

func (r *repo) RevokeToken(ctx context.Context, db *gorm.DB, token string) error {
	return db.WithContext(ctx).
		Model(&domain.RefreshToken{}).
		Where("token = ?", token).
		Update("revoked", true).Error
}
