package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/offerdesk/offerdesk/internal/admin/domain"
	"github.com/offerdesk/offerdesk/internal/clock"
	companydomain "github.com/offerdesk/offerdesk/internal/company/domain"
	userdomain "github.com/offerdesk/offerdesk/internal/user/domain"
	"github.com/offerdesk/offerdesk/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	CompanyRepo companydomain.Repository
	UserRepo    userdomain.Repository
	CompanySvc  companydomain.Service
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	companyRepo companydomain.Repository
	userRepo    userdomain.Repository
	companySvc  companydomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("admin.service"),
		clock:       p.Clock,
		companyRepo: p.CompanyRepo,
		userRepo:    p.UserRepo,
		companySvc:  p.CompanySvc,
	}
}

func requireSuperAdmin(ctx context.Context) error {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok || !tc.IsSuperAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

func (s *Service) Dashboard(ctx context.Context) (domain.Dashboard, error) {
	if err := requireSuperAdmin(ctx); err != nil {
		return domain.Dashboard{}, err
	}

	companies, err := s.companyRepo.ListAll(ctx, s.db)
	if err != nil {
		return domain.Dashboard{}, err
	}

	dash := domain.Dashboard{
		TotalCompanies: len(companies),
		PlanCounts:     make(map[companydomain.SubscriptionPlan]int),
	}
	for _, c := range companies {
		if c.IsActive {
			dash.ActiveCompanies++
		}
		dash.PlanCounts[c.SubscriptionPlan]++
	}

	payments, err := s.companyRepo.ListAllPayments(ctx, s.db)
	if err != nil {
		return domain.Dashboard{}, err
	}

	now := s.clock.Now()
	year, month, day := now.Date()
	weekStart := now.AddDate(0, 0, -7)
	for _, p := range payments {
		dash.Revenue.Total = dash.Revenue.Total.Add(p.Amount)
		py, pm, pd := p.PaidAt.Date()
		if py == year && pm == month && pd == day {
			dash.Revenue.Today = dash.Revenue.Today.Add(p.Amount)
		}
		if p.PaidAt.After(weekStart) {
			dash.Revenue.Week = dash.Revenue.Week.Add(p.Amount)
		}
		if py == year && pm == month {
			dash.Revenue.Month = dash.Revenue.Month.Add(p.Amount)
		}
	}

	return dash, nil
}

func (s *Service) ListCompanies(ctx context.Context) ([]domain.CompanySummary, error) {
	if err := requireSuperAdmin(ctx); err != nil {
		return nil, err
	}

	companies, err := s.companyRepo.ListAll(ctx, s.db)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.CompanySummary, 0, len(companies))
	for _, c := range companies {
		users, err := s.userRepo.CountByCompany(ctx, s.db, c.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, domain.CompanySummary{
			ID:                  c.ID,
			Name:                c.Name,
			Email:               c.Email,
			Plan:                c.SubscriptionPlan,
			OffersUsed:          c.OffersUsed,
			UserCount:           users,
			IsActive:            c.IsActive,
			SubscriptionEndDate: c.SubscriptionEndDate,
			CreatedAt:           c.CreatedAt,
		})
	}
	return summaries, nil
}

func (s *Service) UpgradeCompany(ctx context.Context, companyID snowflake.ID, req companydomain.UpgradePlanRequest) (companydomain.Company, error) {
	if err := requireSuperAdmin(ctx); err != nil {
		return companydomain.Company{}, err
	}
	return s.companySvc.UpgradePlan(ctx, companyID, req)
}

func (s *Service) ToggleCompanyActive(ctx context.Context, companyID snowflake.ID) (companydomain.Company, error) {
	if err := requireSuperAdmin(ctx); err != nil {
		return companydomain.Company{}, err
	}

	company, err := s.companyRepo.FindByID(ctx, s.db, companyID)
	if err != nil {
		return companydomain.Company{}, err
	}
	if company == nil {
		return companydomain.Company{}, companydomain.ErrNotFound
	}

	company.IsActive = !company.IsActive
	company.UpdatedAt = s.clock.Now()
	if err := s.companyRepo.Update(ctx, s.db, company); err != nil {
		return companydomain.Company{}, err
	}

	s.log.Info("company active flag toggled",
		zap.String("company_id", company.ID.String()),
		zap.Bool("is_active", company.IsActive),
	)
	return *company, nil
}
