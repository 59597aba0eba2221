package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/offerdesk/offerdesk/internal/clock"
	"github.com/offerdesk/offerdesk/internal/product/domain"
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
		log:   p.Log.Named("product.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) ListByCompany(ctx context.Context) ([]domain.Product, error) {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.repo.ListByCompany(ctx, s.db, tc.CompanyID)
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.Product, error) {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}

	product, err := s.repo.FindByID(ctx, s.db, tc.CompanyID, id)
	if err != nil {
		return domain.Product{}, err
	}
	if product == nil {
		return domain.Product{}, domain.ErrNotFound
	}
	return *product, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateProductRequest) (domain.Product, error) {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}

	if strings.TrimSpace(req.Name) == "" {
		return domain.Product{}, domain.ErrInvalidInput
	}

	// Exact-match duplicate check inside the company, before the write.
	existing, err := s.repo.FindByName(ctx, s.db, tc.CompanyID, req.Name)
	if err != nil {
		return domain.Product{}, err
	}
	if existing != nil {
		return domain.Product{}, domain.ErrDuplicateName
	}

	now := s.clock.Now()
	product := domain.Product{
		ID:          s.genID.Generate(),
		CompanyID:   tc.CompanyID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateProductRequest) (domain.Product, error) {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}

	if strings.TrimSpace(req.Name) == "" {
		return domain.Product{}, domain.ErrInvalidInput
	}

	product, err := s.repo.FindByID(ctx, s.db, tc.CompanyID, id)
	if err != nil {
		return domain.Product{}, err
	}
	if product == nil {
		return domain.Product{}, domain.ErrNotFound
	}

	duplicate, err := s.repo.FindByName(ctx, s.db, tc.CompanyID, req.Name)
	if err != nil {
		return domain.Product{}, err
	}
	if duplicate != nil && duplicate.ID != product.ID {
		return domain.Product{}, domain.ErrDuplicateName
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Category = req.Category
	product.Price = req.Price
	product.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, product); err != nil {
		return domain.Product{}, err
	}
	return *product, nil
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
