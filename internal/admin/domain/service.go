// Package domain defines the cross-tenant operator console: aggregate
// dashboard figures and plan management for any company.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	companydomain "github.com/offerdesk/offerdesk/internal/company/domain"
	"github.com/shopspring/decimal"
)

var ErrForbidden = errors.New("forbidden")

// CompanySummary is one tenant row on the console.
type CompanySummary struct {
	ID                  snowflake.ID                   `json:"id"`
	Name                string                         `json:"name"`
	Email               string                         `json:"email"`
	Plan                companydomain.SubscriptionPlan `json:"plan"`
	OffersUsed          int                            `json:"offers_used"`
	UserCount           int64                          `json:"user_count"`
	IsActive            bool                           `json:"is_active"`
	SubscriptionEndDate *time.Time                     `json:"subscription_end_date,omitempty"`
	CreatedAt           time.Time                      `json:"created_at"`
}

// Revenue aggregates payment sums over the usual reporting windows.
type Revenue struct {
	Today decimal.Decimal `json:"today"`
	Week  decimal.Decimal `json:"week"`
	Month decimal.Decimal `json:"month"`
	Total decimal.Decimal `json:"total"`
}

type Dashboard struct {
	TotalCompanies  int                                    `json:"total_companies"`
	ActiveCompanies int                                    `json:"active_companies"`
	PlanCounts      map[companydomain.SubscriptionPlan]int `json:"plan_counts"`
	Revenue         Revenue                                `json:"revenue"`
}

type Service interface {
	Dashboard(ctx context.Context) (Dashboard, error)
	ListCompanies(ctx context.Context) ([]CompanySummary, error)
	UpgradeCompany(ctx context.Context, companyID snowflake.ID, req companydomain.UpgradePlanRequest) (companydomain.Company, error)
	ToggleCompanyActive(ctx context.Context, companyID snowflake.ID) (companydomain.Company, error)
}
