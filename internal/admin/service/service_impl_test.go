package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/offerdesk/offerdesk/internal/admin/domain"
	"github.com/offerdesk/offerdesk/internal/clock"
	companydomain "github.com/offerdesk/offerdesk/internal/company/domain"
	companyrepo "github.com/offerdesk/offerdesk/internal/company/repository"
	companyservice "github.com/offerdesk/offerdesk/internal/company/service"
	"github.com/offerdesk/offerdesk/internal/config"
	userdomain "github.com/offerdesk/offerdesk/internal/user/domain"
	userrepo "github.com/offerdesk/offerdesk/internal/user/repository"
	"github.com/offerdesk/offerdesk/pkg/tenantctx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	svc         domain.Service
	db          *gorm.DB
	node        *snowflake.Node
	clock       *clock.FakeClock
	companyRepo companydomain.Repository
	superCtx    context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbConn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, dbConn.AutoMigrate(
		&companydomain.Company{},
		&companydomain.Payment{},
		&userdomain.User{},
	))

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)

	fakeClock := clock.NewFakeClock(time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC))
	companies := companyrepo.Provide()

	companySvc := companyservice.New(companyservice.Params{
		DB:    dbConn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fakeClock,
		Cfg:   config.Config{},
		Repo:  companies,
	})

	svc := New(Params{
		DB:          dbConn,
		Log:         zap.NewNop(),
		Clock:       fakeClock,
		CompanyRepo: companies,
		UserRepo:    userrepo.Provide(),
		CompanySvc:  companySvc,
	})

	superCtx := tenantctx.WithTenant(context.Background(), tenantctx.TenantContext{
		CompanyID: node.Generate(),
		UserID:    node.Generate(),
		Role:      tenantctx.RoleSuperAdmin,
	})

	return &testEnv{
		svc:         svc,
		db:          dbConn,
		node:        node,
		clock:       fakeClock,
		companyRepo: companies,
		superCtx:    superCtx,
	}
}

func (env *testEnv) seedCompany(t *testing.T, name string, plan companydomain.SubscriptionPlan, active bool) companydomain.Company {
	t.Helper()
	company := companydomain.Company{
		ID:                    env.node.Generate(),
		Name:                  name,
		SubscriptionPlan:      plan,
		SubscriptionStartDate: env.clock.Now(),
		IsActive:              active,
		CreatedAt:             env.clock.Now(),
		UpdatedAt:             env.clock.Now(),
	}
	assert.NoError(t, env.companyRepo.Insert(context.Background(), env.db, &company))
	return company
}

func (env *testEnv) seedPayment(t *testing.T, companyID snowflake.ID, amount string, paidAt time.Time) {
	t.Helper()
	assert.NoError(t, env.companyRepo.InsertPayment(context.Background(), env.db, &companydomain.Payment{
		ID:        env.node.Generate(),
		CompanyID: companyID,
		Amount:    decimal.RequireFromString(amount),
		PaidAt:    paidAt,
		CreatedAt: paidAt,
	}))
}

func TestDashboardRequiresSuperAdmin(t *testing.T) {
	env := newTestEnv(t)

	adminCtx := tenantctx.WithTenant(context.Background(), tenantctx.TenantContext{
		CompanyID: env.node.Generate(),
		UserID:    env.node.Generate(),
		Role:      tenantctx.RoleAdmin,
	})
	_, err := env.svc.Dashboard(adminCtx)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = env.svc.Dashboard(context.Background())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDashboardAggregates(t *testing.T) {
	env := newTestEnv(t)

	first := env.seedCompany(t, "Acme", companydomain.PlanFree, true)
	second := env.seedCompany(t, "Globex", companydomain.PlanPro, true)
	env.seedCompany(t, "Initech", companydomain.PlanFree, false)

	now := env.clock.Now()
	env.seedPayment(t, second.ID, "299.00", now)
	env.seedPayment(t, second.ID, "299.00", now.AddDate(0, 0, -3))
	env.seedPayment(t, first.ID, "99.00", now.AddDate(0, 0, -10))
	env.seedPayment(t, first.ID, "99.00", now.AddDate(0, -2, 0))

	dash, err := env.svc.Dashboard(env.superCtx)
	assert.NoError(t, err)
	assert.Equal(t, 3, dash.TotalCompanies)
	assert.Equal(t, 2, dash.ActiveCompanies)
	assert.Equal(t, 2, dash.PlanCounts[companydomain.PlanFree])
	assert.Equal(t, 1, dash.PlanCounts[companydomain.PlanPro])

	assert.True(t, dash.Revenue.Today.Equal(decimal.RequireFromString("299.00")))
	assert.True(t, dash.Revenue.Week.Equal(decimal.RequireFromString("598.00")))
	assert.True(t, dash.Revenue.Month.Equal(decimal.RequireFromString("697.00")))
	assert.True(t, dash.Revenue.Total.Equal(decimal.RequireFromString("796.00")))
}

func TestListCompaniesIncludesSeatCounts(t *testing.T) {
	env := newTestEnv(t)

	company := env.seedCompany(t, "Acme", companydomain.PlanFree, true)
	users := userrepo.Provide()
	for _, email := range []string{"a@acme.example", "b@acme.example"} {
		assert.NoError(t, users.Insert(context.Background(), env.db, &userdomain.User{
			ID:        env.node.Generate(),
			CompanyID: company.ID,
			Email:     email,
			Role:      tenantctx.RoleUser,
			IsActive:  true,
			CreatedAt: env.clock.Now(),
			UpdatedAt: env.clock.Now(),
		}))
	}

	summaries, err := env.svc.ListCompanies(env.superCtx)
	assert.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, company.Name, summaries[0].Name)
	assert.Equal(t, int64(2), summaries[0].UserCount)
}

func TestUpgradeCompany(t *testing.T) {
	env := newTestEnv(t)
	company := env.seedCompany(t, "Acme", companydomain.PlanFree, true)

	upgraded, err := env.svc.UpgradeCompany(env.superCtx, company.ID, companydomain.UpgradePlanRequest{
		Plan:   companydomain.PlanEnterprise,
		Amount: decimal.RequireFromString("999.00"),
	})
	assert.NoError(t, err)
	assert.Equal(t, companydomain.PlanEnterprise, upgraded.SubscriptionPlan)
	assert.True(t, upgraded.IsActive)
}

func TestToggleCompanyActive(t *testing.T) {
	env := newTestEnv(t)
	company := env.seedCompany(t, "Acme", companydomain.PlanFree, true)

	toggled, err := env.svc.ToggleCompanyActive(env.superCtx, company.ID)
	assert.NoError(t, err)
	assert.False(t, toggled.IsActive)

	_, err = env.svc.ToggleCompanyActive(env.superCtx, env.node.Generate())
	assert.ErrorIs(t, err, companydomain.ErrNotFound)
}
