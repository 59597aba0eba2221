package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/offerdesk/offerdesk/internal/clock"
	companydomain "github.com/offerdesk/offerdesk/internal/company/domain"
	companyrepo "github.com/offerdesk/offerdesk/internal/company/repository"
	"github.com/offerdesk/offerdesk/internal/config"
	"github.com/offerdesk/offerdesk/internal/offer/domain"
	offerrepo "github.com/offerdesk/offerdesk/internal/offer/repository"
	"github.com/offerdesk/offerdesk/internal/providers/email"
	"github.com/offerdesk/offerdesk/internal/providers/pdf"
	"github.com/offerdesk/offerdesk/pkg/db/pagination"
	"github.com/offerdesk/offerdesk/pkg/tenantctx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type emailStub struct {
	fail     bool
	sent     []email.Attachment
	to       []string
	subjects []string
}

func (e *emailStub) Send(ctx context.Context, to []string, subject string, htmlBody string, attachments ...email.Attachment) error {
	if e.fail {
		return errors.New("smtp unreachable")
	}
	e.to = append(e.to, to...)
	e.subjects = append(e.subjects, subject)
	e.sent = append(e.sent, attachments...)
	return nil
}

type testEnv struct {
	svc         domain.Service
	db          *gorm.DB
	clock       *clock.FakeClock
	email       *emailStub
	companyRepo companydomain.Repository
	companyID   snowflake.ID
	userID      snowflake.ID
	ctx         context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbConn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	err = dbConn.AutoMigrate(
		&companydomain.Company{},
		&companydomain.Payment{},
		&domain.Offer{},
		&domain.OfferItem{},
	)
	assert.NoError(t, err)

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)

	fakeClock := clock.NewFakeClock(time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC))
	mail := &emailStub{}
	companies := companyrepo.Provide()

	company := companydomain.Company{
		ID:                    node.Generate(),
		Name:                  "Acme Yazilim",
		Address:               "Istanbul",
		Phone:                 "+90 555 000 0000",
		Email:                 "info@acme.test",
		SubscriptionPlan:      companydomain.PlanFree,
		SubscriptionStartDate: fakeClock.Now(),
		IsActive:              true,
		CreatedAt:             fakeClock.Now(),
		UpdatedAt:             fakeClock.Now(),
	}
	assert.NoError(t, companies.Insert(context.Background(), dbConn, &company))

	userID := node.Generate()
	ctx := tenantctx.WithTenant(context.Background(), tenantctx.TenantContext{
		CompanyID: company.ID,
		UserID:    userID,
		Role:      tenantctx.RoleAdmin,
	})

	svc := New(Params{
		DB:          dbConn,
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       fakeClock,
		Cfg:         config.Config{},
		Plans:       config.StaticPlanLimits(config.DefaultPlanLimits()),
		Repo:        offerrepo.Provide(),
		CompanyRepo: companies,
		Email:       mail,
		PDF:         &pdf.NoOpProvider{},
	})

	return &testEnv{
		svc:         svc,
		db:          dbConn,
		clock:       fakeClock,
		email:       mail,
		companyRepo: companies,
		companyID:   company.ID,
		userID:      userID,
		ctx:         ctx,
	}
}

func sampleRequest() domain.CreateOfferRequest {
	return domain.CreateOfferRequest{
		CustomerName:    "Mehmet Demir",
		CustomerEmail:   "mehmet@example.com",
		CustomerAddress: "Ankara",
		OfferDate:       time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC),
		Currency:        domain.CurrencyTRY,
		Items: []domain.OfferItemRequest{
			{Description: "Danismanlik", Quantity: 3, UnitPrice: decimal.RequireFromString("10.00"), Discount: decimal.RequireFromString("10"), VatRate: decimal.RequireFromString("20")},
		},
	}
}

func (e *testEnv) company(t *testing.T) *companydomain.Company {
	t.Helper()
	c, err := e.companyRepo.FindByID(context.Background(), e.db, e.companyID)
	assert.NoError(t, err)
	assert.NotNil(t, c)
	return c
}

func TestCreateAssignsNumberAndIncrementsCounter(t *testing.T) {
	env := newTestEnv(t)

	offer, err := env.svc.Create(env.ctx, sampleRequest())
	assert.NoError(t, err)
	assert.Equal(t, "TKF-202503-001", offer.OfferNumber)
	assert.Equal(t, domain.StatusDraft, offer.Status)
	assert.NotEmpty(t, offer.PublicToken)
	assert.True(t, decimal.RequireFromString("30").Equal(offer.TotalAmount))

	second, err := env.svc.Create(env.ctx, sampleRequest())
	assert.NoError(t, err)
	assert.Equal(t, "TKF-202503-002", second.OfferNumber)

	assert.Equal(t, 2, env.company(t).OffersUsed)
}

func TestCreateRejectsEmptyItems(t *testing.T) {
	env := newTestEnv(t)

	req := sampleRequest()
	req.Items = nil
	_, err := env.svc.Create(env.ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFreePlanOfferQuota(t *testing.T) {
	env := newTestEnv(t)

	limit := config.DefaultPlanLimits().FreeOfferLimit
	for i := 0; i < limit; i++ {
		_, err := env.svc.Create(env.ctx, sampleRequest())
		assert.NoError(t, err)
	}

	_, err := env.svc.Create(env.ctx, sampleRequest())
	assert.ErrorIs(t, err, companydomain.ErrQuotaExceeded)
	assert.Equal(t, limit, env.company(t).OffersUsed)
}

func TestExpiredSubscriptionDeactivatesCompany(t *testing.T) {
	env := newTestEnv(t)

	c := env.company(t)
	end := env.clock.Now().Add(-24 * time.Hour)
	c.SubscriptionEndDate = &end
	assert.NoError(t, env.companyRepo.Update(context.Background(), env.db, c))

	_, err := env.svc.Create(env.ctx, sampleRequest())
	assert.ErrorIs(t, err, companydomain.ErrSubscriptionExpired)

	// The failed attempt still persists the deactivation.
	assert.False(t, env.company(t).IsActive)
	assert.Equal(t, 0, env.company(t).OffersUsed)
}

func TestListSweepsOverdueOffers(t *testing.T) {
	env := newTestEnv(t)

	req := sampleRequest()
	due := env.clock.Now().Add(24 * time.Hour)
	req.DueDate = &due
	created, err := env.svc.Create(env.ctx, req)
	assert.NoError(t, err)

	env.clock.Advance(48 * time.Hour)

	// Reading by id does not sweep.
	byID, err := env.svc.GetByID(env.ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, byID.Status)

	offers, err := env.svc.ListByCompany(env.ctx, pagination.Pagination{})
	assert.NoError(t, err)
	assert.Len(t, offers, 1)
	assert.Equal(t, domain.StatusExpired, offers[0].Status)

	// Idempotent on the next read.
	offers, err = env.svc.ListByCompany(env.ctx, pagination.Pagination{})
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusExpired, offers[0].Status)
}

func TestSweepLeavesTerminalStatusesAlone(t *testing.T) {
	env := newTestEnv(t)

	req := sampleRequest()
	due := env.clock.Now().Add(24 * time.Hour)
	req.DueDate = &due
	created, err := env.svc.Create(env.ctx, req)
	assert.NoError(t, err)
	assert.NoError(t, env.svc.Accept(env.ctx, created.ID))

	env.clock.Advance(48 * time.Hour)

	offers, err := env.svc.ListByCompany(env.ctx, pagination.Pagination{})
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, offers[0].Status)
}

func TestSendAdvancesDraftOnlyOnSuccess(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.svc.Create(env.ctx, sampleRequest())
	assert.NoError(t, err)

	env.email.fail = true
	err = env.svc.Send(env.ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrSendFailed)

	offer, err := env.svc.GetByID(env.ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, offer.Status)

	env.email.fail = false
	assert.NoError(t, env.svc.Send(env.ctx, created.ID))

	offer, err = env.svc.GetByID(env.ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusSent, offer.Status)
	assert.Equal(t, []string{"mehmet@example.com"}, env.email.to)
	assert.Equal(t, []string{"Teklif - " + created.OfferNumber}, env.email.subjects)
	assert.Len(t, env.email.sent, 1)
	assert.Equal(t, created.OfferNumber+".pdf", env.email.sent[0].Filename)
}

func TestResendResetsStatusToSent(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.svc.Create(env.ctx, sampleRequest())
	assert.NoError(t, err)

	assert.NoError(t, env.svc.Send(env.ctx, created.ID))
	_, _, err = env.svc.GetPDF(env.ctx, created.ID)
	assert.NoError(t, err)
	offer, _ := env.svc.GetByID(env.ctx, created.ID)
	assert.Equal(t, domain.StatusViewed, offer.Status)

	// Sending again resets Viewed back to Sent.
	assert.NoError(t, env.svc.Send(env.ctx, created.ID))
	offer, _ = env.svc.GetByID(env.ctx, created.ID)
	assert.Equal(t, domain.StatusSent, offer.Status)

	// The next PDF read transitions again.
	_, _, err = env.svc.GetPDF(env.ctx, created.ID)
	assert.NoError(t, err)
	offer, _ = env.svc.GetByID(env.ctx, created.ID)
	assert.Equal(t, domain.StatusViewed, offer.Status)

	// An accepted offer also goes back to Sent on re-send.
	assert.NoError(t, env.svc.Accept(env.ctx, created.ID))
	assert.NoError(t, env.svc.Send(env.ctx, created.ID))
	offer, _ = env.svc.GetByID(env.ctx, created.ID)
	assert.Equal(t, domain.StatusSent, offer.Status)
}

func TestPDFReadMarksSentAsViewed(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.svc.Create(env.ctx, sampleRequest())
	assert.NoError(t, err)

	// Draft reads do not transition.
	_, _, err = env.svc.GetPDF(env.ctx, created.ID)
	assert.NoError(t, err)
	offer, _ := env.svc.GetByID(env.ctx, created.ID)
	assert.Equal(t, domain.StatusDraft, offer.Status)

	assert.NoError(t, env.svc.Send(env.ctx, created.ID))

	_, filename, err := env.svc.GetPDF(env.ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.OfferNumber+".pdf", filename)

	offer, _ = env.svc.GetByID(env.ctx, created.ID)
	assert.Equal(t, domain.StatusViewed, offer.Status)

	// Repeat reads stay Viewed.
	_, _, err = env.svc.GetPDF(env.ctx, created.ID)
	assert.NoError(t, err)
	offer, _ = env.svc.GetByID(env.ctx, created.ID)
	assert.Equal(t, domain.StatusViewed, offer.Status)
}

func TestPublicTokenLookup(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.svc.Create(env.ctx, sampleRequest())
	assert.NoError(t, err)

	offer, err := env.svc.GetPublic(context.Background(), created.PublicToken)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, offer.ID)

	_, err = env.svc.GetPublic(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPublicTokenExpiry(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.svc.Create(env.ctx, sampleRequest())
	assert.NoError(t, err)

	expires := env.clock.Now().Add(time.Hour)
	err = env.db.Model(&domain.Offer{}).
		Where("id = ?", created.ID).
		Update("token_expires_at", expires).Error
	assert.NoError(t, err)

	_, err = env.svc.GetPublic(context.Background(), created.PublicToken)
	assert.NoError(t, err)

	env.clock.Advance(2 * time.Hour)
	_, err = env.svc.GetPublic(context.Background(), created.PublicToken)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestUpdateReplacesItemsAndRecomputesTotal(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.svc.Create(env.ctx, sampleRequest())
	assert.NoError(t, err)

	update := domain.UpdateOfferRequest{
		CustomerName:    "Mehmet Demir",
		CustomerEmail:   "mehmet@example.com",
		CustomerAddress: "Ankara",
		OfferDate:       created.OfferDate,
		Currency:        domain.CurrencyEUR,
		Items: []domain.OfferItemRequest{
			{Description: "Kurulum", Quantity: 1, UnitPrice: decimal.RequireFromString("250.00")},
			{Description: "Destek", Quantity: 12, UnitPrice: decimal.RequireFromString("40.00")},
		},
	}

	updated, err := env.svc.Update(env.ctx, created.ID, update)
	assert.NoError(t, err)
	assert.Equal(t, domain.CurrencyEUR, updated.Currency)
	assert.Len(t, updated.Items, 2)
	assert.True(t, decimal.RequireFromString("730").Equal(updated.TotalAmount))

	// The offer number never changes on update.
	assert.Equal(t, created.OfferNumber, updated.OfferNumber)

	reloaded, err := env.svc.GetByID(env.ctx, created.ID)
	assert.NoError(t, err)
	assert.Len(t, reloaded.Items, 2)
}

func TestDeleteScopedToOwner(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.svc.Create(env.ctx, sampleRequest())
	assert.NoError(t, err)

	otherCtx := tenantctx.WithTenant(context.Background(), tenantctx.TenantContext{
		CompanyID: env.companyID,
		UserID:    env.userID + 1,
		Role:      tenantctx.RoleUser,
	})
	assert.ErrorIs(t, env.svc.Delete(otherCtx, created.ID), domain.ErrNotFound)

	assert.NoError(t, env.svc.Delete(env.ctx, created.ID))
	_, err = env.svc.GetByID(env.ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLifecycleActionsAreUnconditional(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.svc.Create(env.ctx, sampleRequest())
	assert.NoError(t, err)

	assert.NoError(t, env.svc.Accept(env.ctx, created.ID))
	assert.NoError(t, env.svc.Reject(env.ctx, created.ID))
	assert.NoError(t, env.svc.Cancel(env.ctx, created.ID))

	offer, err := env.svc.GetByID(env.ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, offer.Status)
}
