package migration

import (
	authdomain "github.com/offerdesk/offerdesk/internal/auth/domain"
	companydomain "github.com/offerdesk/offerdesk/internal/company/domain"
	"github.com/offerdesk/offerdesk/internal/config"
	customerdomain "github.com/offerdesk/offerdesk/internal/customer/domain"
	offerdomain "github.com/offerdesk/offerdesk/internal/offer/domain"
	productdomain "github.com/offerdesk/offerdesk/internal/product/domain"
	userdomain "github.com/offerdesk/offerdesk/internal/user/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		return conn.AutoMigrate(
			&companydomain.Company{},
			&companydomain.Payment{},
			&userdomain.User{},
			&authdomain.RefreshToken{},
			&customerdomain.Customer{},
			&productdomain.Product{},
			&offerdomain.Offer{},
			&offerdomain.OfferItem{},
		)
	}),
)
