package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/offerdesk/offerdesk/internal/clock"
	"github.com/offerdesk/offerdesk/internal/customer/domain"
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
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) ListByCompany(ctx context.Context) ([]domain.Customer, error) {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.repo.ListByCompany(ctx, s.db, tc.CompanyID)
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.Customer, error) {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return domain.Customer{}, domain.ErrNotFound
	}

	customer, err := s.repo.FindByID(ctx, s.db, tc.CompanyID, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if customer == nil {
		return domain.Customer{}, domain.ErrNotFound
	}
	return *customer, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return domain.Customer{}, domain.ErrNotFound
	}

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" {
		return domain.Customer{}, domain.ErrInvalidInput
	}

	now := s.clock.Now()
	customer := domain.Customer{
		ID:        s.genID.Generate(),
		CompanyID: tc.CompanyID,
		Name:      name,
		Email:     email,
		Phone:     req.Phone,
		Address:   req.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		return domain.Customer{}, err
	}
	return customer, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateCustomerRequest) (domain.Customer, error) {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return domain.Customer{}, domain.ErrNotFound
	}

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" {
		return domain.Customer{}, domain.ErrInvalidInput
	}

	customer, err := s.repo.FindByID(ctx, s.db, tc.CompanyID, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if customer == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	customer.Name = name
	customer.Email = email
	customer.Phone = req.Phone
	customer.Address = req.Address
	customer.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, customer); err != nil {
		return domain.Customer{}, err
	}
	return *customer, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return domain.ErrNotFound
	}

	deleted, err := s.repo.Delete(ctx, s.db, tc.CompanyID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}
