package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/offerdesk/offerdesk/internal/clock"
	companydomain "github.com/offerdesk/offerdesk/internal/company/domain"
	companyrepo "github.com/offerdesk/offerdesk/internal/company/repository"
	"github.com/offerdesk/offerdesk/internal/config"
	"github.com/offerdesk/offerdesk/internal/user/domain"
	userrepo "github.com/offerdesk/offerdesk/internal/user/repository"
	"github.com/offerdesk/offerdesk/pkg/tenantctx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	svc         domain.Service
	db          *gorm.DB
	clock       *clock.FakeClock
	companyRepo companydomain.Repository
	companyID   snowflake.ID
	ctx         context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbConn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, dbConn.AutoMigrate(&companydomain.Company{}, &domain.User{}))

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)

	fakeClock := clock.NewFakeClock(time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC))
	companies := companyrepo.Provide()

	company := companydomain.Company{
		ID:                    node.Generate(),
		Name:                  "Acme Yazilim",
		SubscriptionPlan:      companydomain.PlanFree,
		SubscriptionStartDate: fakeClock.Now(),
		IsActive:              true,
		CreatedAt:             fakeClock.Now(),
		UpdatedAt:             fakeClock.Now(),
	}
	assert.NoError(t, companies.Insert(context.Background(), dbConn, &company))

	ctx := tenantctx.WithTenant(context.Background(), tenantctx.TenantContext{
		CompanyID: company.ID,
		UserID:    node.Generate(),
		Role:      tenantctx.RoleAdmin,
	})

	svc := New(Params{
		DB:          dbConn,
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       fakeClock,
		Plans:       config.StaticPlanLimits(config.DefaultPlanLimits()),
		Repo:        userrepo.Provide(),
		CompanyRepo: companies,
	})

	return &testEnv{
		svc:         svc,
		db:          dbConn,
		clock:       fakeClock,
		companyRepo: companies,
		companyID:   company.ID,
		ctx:         ctx,
	}
}

func createRequest(email string) domain.CreateUserRequest {
	return domain.CreateUserRequest{
		FirstName: "Ayse",
		LastName:  "Yilmaz",
		Email:     email,
		Password:  "s3cret-pass",
	}
}

func TestCreateUserHashesPassword(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.svc.Create(env.ctx, createRequest("Ayse@Example.com"))
	assert.NoError(t, err)
	assert.Equal(t, "ayse@example.com", user.Email)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.Equal(t, tenantctx.RoleUser, user.Role)
	assert.True(t, user.IsActive)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create(env.ctx, createRequest("ayse@example.com"))
	assert.NoError(t, err)

	_, err = env.svc.Create(env.ctx, createRequest("AYSE@example.com"))
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestFreePlanSeatCap(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create(env.ctx, createRequest("first@example.com"))
	assert.NoError(t, err)
	_, err = env.svc.Create(env.ctx, createRequest("second@example.com"))
	assert.NoError(t, err)

	_, err = env.svc.Create(env.ctx, createRequest("third@example.com"))
	assert.ErrorIs(t, err, companydomain.ErrQuotaExceeded)

	// Upgrading the plan lifts the cap.
	c, err := env.companyRepo.FindByID(context.Background(), env.db, env.companyID)
	assert.NoError(t, err)
	c.SubscriptionPlan = companydomain.PlanPro
	assert.NoError(t, env.companyRepo.Update(context.Background(), env.db, c))

	_, err = env.svc.Create(env.ctx, createRequest("third@example.com"))
	assert.NoError(t, err)
}

func TestCreateUserExpiredSubscription(t *testing.T) {
	env := newTestEnv(t)

	c, err := env.companyRepo.FindByID(context.Background(), env.db, env.companyID)
	assert.NoError(t, err)
	end := env.clock.Now().Add(-time.Hour)
	c.SubscriptionEndDate = &end
	assert.NoError(t, env.companyRepo.Update(context.Background(), env.db, c))

	_, err = env.svc.Create(env.ctx, createRequest("late@example.com"))
	assert.ErrorIs(t, err, companydomain.ErrSubscriptionExpired)

	c, err = env.companyRepo.FindByID(context.Background(), env.db, env.companyID)
	assert.NoError(t, err)
	assert.False(t, c.IsActive)
}

func TestToggleActive(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.svc.Create(env.ctx, createRequest("ayse@example.com"))
	assert.NoError(t, err)

	toggled, err := env.svc.ToggleActive(env.ctx, user.ID)
	assert.NoError(t, err)
	assert.False(t, toggled.IsActive)

	toggled, err = env.svc.ToggleActive(env.ctx, user.ID)
	assert.NoError(t, err)
	assert.True(t, toggled.IsActive)
}

func TestUpdateRejectsTakenEmail(t *testing.T) {
	env := newTestEnv(t)

	first, err := env.svc.Create(env.ctx, createRequest("first@example.com"))
	assert.NoError(t, err)
	_, err = env.svc.Create(env.ctx, createRequest("second@example.com"))
	assert.NoError(t, err)

	_, err = env.svc.Update(env.ctx, first.ID, domain.UpdateUserRequest{
		FirstName: "Ayse",
		LastName:  "Yilmaz",
		Email:     "second@example.com",
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestDeleteOtherTenantUser(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.svc.Create(env.ctx, createRequest("ayse@example.com"))
	assert.NoError(t, err)

	otherCtx := tenantctx.WithTenant(context.Background(), tenantctx.TenantContext{
		CompanyID: env.companyID + 1,
		UserID:    user.ID,
		Role:      tenantctx.RoleAdmin,
	})
	assert.ErrorIs(t, env.svc.Delete(otherCtx, user.ID), domain.ErrNotFound)
	assert.NoError(t, env.svc.Delete(env.ctx, user.ID))
}
