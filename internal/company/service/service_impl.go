package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/offerdesk/offerdesk/internal/clock"
	"github.com/offerdesk/offerdesk/internal/company/domain"
	"github.com/offerdesk/offerdesk/internal/config"
	"github.com/offerdesk/offerdesk/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Cfg   config.Config
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	cfg   config.Config
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("company.service"),
		genID: p.GenID,
		clock: p.Clock,
		cfg:   p.Cfg,
		repo:  p.Repo,
	}
}

func (s *Service) Get(ctx context.Context) (domain.Company, error) {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return domain.Company{}, domain.ErrNotFound
	}

	company, err := s.repo.FindByID(ctx, s.db, tc.CompanyID)
	if err != nil {
		return domain.Company{}, err
	}
	if company == nil {
		return domain.Company{}, domain.ErrNotFound
	}
	return *company, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCompanyRequest) (domain.Company, error) {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return domain.Company{}, domain.ErrNotFound
	}

	if strings.TrimSpace(req.Name) == "" ||
		strings.TrimSpace(req.Address) == "" ||
		strings.TrimSpace(req.Phone) == "" ||
		strings.TrimSpace(req.Email) == "" {
		return domain.Company{}, domain.ErrInvalidInput
	}

	company, err := s.repo.FindByID(ctx, s.db, tc.CompanyID)
	if err != nil {
		return domain.Company{}, err
	}
	if company == nil {
		return domain.Company{}, domain.ErrNotFound
	}

	company.Name = strings.TrimSpace(req.Name)
	company.Address = strings.TrimSpace(req.Address)
	company.Phone = strings.TrimSpace(req.Phone)
	company.Email = strings.TrimSpace(req.Email)
	company.TaxNumber = req.TaxNumber
	company.IBAN = req.IBAN
	company.Website = req.Website
	company.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, company); err != nil {
		return domain.Company{}, err
	}
	return *company, nil
}

func (s *Service) UploadLogo(ctx context.Context, filename string, content io.Reader) (string, error) {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return "", domain.ErrNotFound
	}

	company, err := s.repo.FindByID(ctx, s.db, tc.CompanyID)
	if err != nil {
		return "", err
	}
	if company == nil {
		return "", domain.ErrNotFound
	}

	dir := filepath.Join(s.cfg.UploadsDir, "logos")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", domain.ErrLogoWriteFailed
	}

	name := fmt.Sprintf("%s_%s%s", company.ID.String(), uuid.NewString(), filepath.Ext(filename))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", domain.ErrLogoWriteFailed
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		return "", domain.ErrLogoWriteFailed
	}

	logoPath := "/uploads/logos/" + name
	company.Logo = &logoPath
	company.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, company); err != nil {
		return "", err
	}

	return logoPath, nil
}

func (s *Service) UpgradePlan(ctx context.Context, companyID snowflake.ID, req domain.UpgradePlanRequest) (domain.Company, error) {
	switch req.Plan {
	case domain.PlanFree, domain.PlanPro, domain.PlanEnterprise:
	default:
		return domain.Company{}, domain.ErrInvalidPlan
	}

	company, err := s.repo.FindByID(ctx, s.db, companyID)
	if err != nil {
		return domain.Company{}, err
	}
	if company == nil {
		return domain.Company{}, domain.ErrNotFound
	}

	now := s.clock.Now()
	payment := domain.Payment{
		ID:            s.genID.Generate(),
		CompanyID:     company.ID,
		Amount:        req.Amount,
		PaidAt:        now,
		TransactionID: req.TransactionID,
		CreatedAt:     now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertPayment(ctx, tx, &payment); err != nil {
			return err
		}
		company.SubscriptionPlan = req.Plan
		company.SubscriptionStartDate = payment.PaidAt
		end := payment.PaidAt.AddDate(0, 1, 0)
		company.SubscriptionEndDate = &end
		company.IsActive = true
		company.UpdatedAt = now
		return s.repo.Update(ctx, tx, company)
	})
	if err != nil {
		return domain.Company{}, err
	}

	s.log.Info("plan upgraded",
		zap.String("company_id", company.ID.String()),
		zap.String("plan", string(req.Plan)),
	)
	return *company, nil
}

func (s *Service) RecordPayment(ctx context.Context, req domain.RecordPaymentRequest) (domain.Payment, error) {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return domain.Payment{}, domain.ErrNotFound
	}

	company, err := s.repo.FindByID(ctx, s.db, tc.CompanyID)
	if err != nil {
		return domain.Payment{}, err
	}
	if company == nil {
		return domain.Payment{}, domain.ErrNotFound
	}

	now := s.clock.Now()
	payment := domain.Payment{
		ID:            s.genID.Generate(),
		CompanyID:     company.ID,
		Amount:        req.Amount,
		PaidAt:        now,
		TransactionID: req.TransactionID,
		CreatedAt:     now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertPayment(ctx, tx, &payment); err != nil {
			return err
		}
		company.SubscriptionStartDate = payment.PaidAt
		end := payment.PaidAt.AddDate(0, 1, 0)
		company.SubscriptionEndDate = &end
		company.IsActive = true
		company.UpdatedAt = now
		return s.repo.Update(ctx, tx, company)
	})
	if err != nil {
		return domain.Payment{}, err
	}

	return payment, nil
}

func (s *Service) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.repo.ListPayments(ctx, s.db, tc.CompanyID)
}
