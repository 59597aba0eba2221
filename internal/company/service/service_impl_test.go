package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/offerdesk/offerdesk/internal/clock"
	"github.com/offerdesk/offerdesk/internal/company/domain"
	companyrepo "github.com/offerdesk/offerdesk/internal/company/repository"
	"github.com/offerdesk/offerdesk/internal/config"
	"github.com/offerdesk/offerdesk/pkg/tenantctx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	svc       domain.Service
	db        *gorm.DB
	clock     *clock.FakeClock
	repo      domain.Repository
	companyID snowflake.ID
	ctx       context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbConn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, dbConn.AutoMigrate(&domain.Company{}, &domain.Payment{}))

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)

	fakeClock := clock.NewFakeClock(time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC))
	repo := companyrepo.Provide()

	company := domain.Company{
		ID:                    node.Generate(),
		Name:                  "Acme Yazilim",
		Address:               "Kadikoy, Istanbul",
		Phone:                 "+90 555 000 0000",
		Email:                 "info@acme.example",
		SubscriptionPlan:      domain.PlanFree,
		SubscriptionStartDate: fakeClock.Now(),
		IsActive:              true,
		CreatedAt:             fakeClock.Now(),
		UpdatedAt:             fakeClock.Now(),
	}
	assert.NoError(t, repo.Insert(context.Background(), dbConn, &company))

	ctx := tenantctx.WithTenant(context.Background(), tenantctx.TenantContext{
		CompanyID: company.ID,
		UserID:    node.Generate(),
		Role:      tenantctx.RoleAdmin,
	})

	svc := New(Params{
		DB:    dbConn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fakeClock,
		Cfg:   config.Config{UploadsDir: t.TempDir()},
		Repo:  repo,
	})

	return &testEnv{
		svc:       svc,
		db:        dbConn,
		clock:     fakeClock,
		repo:      repo,
		companyID: company.ID,
		ctx:       ctx,
	}
}

func TestUpdateCompany(t *testing.T) {
	env := newTestEnv(t)

	iban := "TR12 0006 4000 0011 2345 6789 01"
	updated, err := env.svc.Update(env.ctx, domain.UpdateCompanyRequest{
		Name:    "Acme Teknoloji",
		Address: "Besiktas, Istanbul",
		Phone:   "+90 555 111 1111",
		Email:   "hello@acme.example",
		IBAN:    &iban,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Acme Teknoloji", updated.Name)
	assert.Equal(t, &iban, updated.IBAN)
}

func TestUpdateCompanyBlankFields(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Update(env.ctx, domain.UpdateCompanyRequest{
		Name:    "Acme Teknoloji",
		Address: "  ",
		Phone:   "+90 555 111 1111",
		Email:   "hello@acme.example",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpgradePlanSetsSubscriptionWindow(t *testing.T) {
	env := newTestEnv(t)

	// Simulate an already lapsed company before the upgrade.
	c, err := env.repo.FindByID(context.Background(), env.db, env.companyID)
	assert.NoError(t, err)
	end := env.clock.Now().Add(-time.Hour)
	c.SubscriptionEndDate = &end
	c.IsActive = false
	assert.NoError(t, env.repo.Update(context.Background(), env.db, c))

	upgraded, err := env.svc.UpgradePlan(env.ctx, env.companyID, domain.UpgradePlanRequest{
		Plan:   domain.PlanPro,
		Amount: decimal.RequireFromString("299.00"),
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.PlanPro, upgraded.SubscriptionPlan)
	assert.True(t, upgraded.IsActive)
	assert.Equal(t, env.clock.Now(), upgraded.SubscriptionStartDate)
	assert.NotNil(t, upgraded.SubscriptionEndDate)
	assert.Equal(t, env.clock.Now().AddDate(0, 1, 0), *upgraded.SubscriptionEndDate)

	payments, err := env.svc.ListPayments(env.ctx)
	assert.NoError(t, err)
	assert.Len(t, payments, 1)
	assert.True(t, payments[0].Amount.Equal(decimal.RequireFromString("299.00")))
}

func TestUpgradePlanRejectsUnknownPlan(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.UpgradePlan(env.ctx, env.companyID, domain.UpgradePlanRequest{
		Plan:   domain.SubscriptionPlan("platinum"),
		Amount: decimal.RequireFromString("299.00"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPlan)
}

func TestRecordPaymentExtendsWithoutPlanChange(t *testing.T) {
	env := newTestEnv(t)

	payment, err := env.svc.RecordPayment(env.ctx, domain.RecordPaymentRequest{
		Amount: decimal.RequireFromString("99.00"),
	})
	assert.NoError(t, err)
	assert.Equal(t, env.clock.Now(), payment.PaidAt)

	c, err := env.svc.Get(env.ctx)
	assert.NoError(t, err)
	assert.Equal(t, domain.PlanFree, c.SubscriptionPlan)
	assert.NotNil(t, c.SubscriptionEndDate)
	assert.True(t, c.SubscriptionEndDate.Equal(env.clock.Now().AddDate(0, 1, 0)))
}

func TestInsertPersistsInactiveFlag(t *testing.T) {
	env := newTestEnv(t)

	node, err := snowflake.NewNode(2)
	assert.NoError(t, err)

	dormant := domain.Company{
		ID:                    node.Generate(),
		Name:                  "Initech",
		SubscriptionPlan:      domain.PlanFree,
		SubscriptionStartDate: env.clock.Now(),
		IsActive:              false,
		CreatedAt:             env.clock.Now(),
		UpdatedAt:             env.clock.Now(),
	}
	assert.NoError(t, env.repo.Insert(context.Background(), env.db, &dormant))

	got, err := env.repo.FindByID(context.Background(), env.db, dormant.ID)
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.False(t, got.IsActive)
}

func TestUploadLogoPersistsPublicPath(t *testing.T) {
	env := newTestEnv(t)

	path, err := env.svc.UploadLogo(env.ctx, "logo.png", strings.NewReader("png-bytes"))
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "/uploads/logos/"))
	assert.True(t, strings.HasSuffix(path, ".png"))

	c, err := env.svc.Get(env.ctx)
	assert.NoError(t, err)
	assert.Equal(t, &path, c.Logo)
}
