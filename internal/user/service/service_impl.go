package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/offerdesk/offerdesk/internal/auth/password"
	"github.com/offerdesk/offerdesk/internal/clock"
	companydomain "github.com/offerdesk/offerdesk/internal/company/domain"
	"github.com/offerdesk/offerdesk/internal/config"
	"github.com/offerdesk/offerdesk/internal/user/domain"
	"github.com/offerdesk/offerdesk/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Plans       *config.PlanLimitsHolder
	Repo        domain.Repository
	CompanyRepo companydomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	plans       *config.PlanLimitsHolder
	repo        domain.Repository
	companyRepo companydomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("user.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		plans:       p.Plans,
		repo:        p.Repo,
		companyRepo: p.CompanyRepo,
	}
}

func (s *Service) ListByCompany(ctx context.Context) ([]domain.User, error) {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.repo.ListByCompany(ctx, s.db, tc.CompanyID)
}

func (s *Service) Create(ctx context.Context, req domain.CreateUserRequest) (domain.User, error) {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !strings.Contains(email, "@") || req.Password == "" {
		return domain.User{}, domain.ErrInvalidInput
	}

	existing, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return domain.User{}, err
	}
	if existing != nil {
		return domain.User{}, domain.ErrEmailTaken
	}

	company, err := s.companyRepo.FindByID(ctx, s.db, tc.CompanyID)
	if err != nil {
		return domain.User{}, err
	}
	if company == nil {
		return domain.User{}, domain.ErrNotFound
	}

	now := s.clock.Now()
	seats, err := s.repo.CountByCompany(ctx, s.db, tc.CompanyID)
	if err != nil {
		return domain.User{}, err
	}
	if err := companydomain.CheckSeatQuota(company, seats, s.plans.Get().FreeSeatLimit, now); err != nil {
		// Expiry flips the company inactive even though the request fails.
		if err == companydomain.ErrSubscriptionExpired {
			_ = s.companyRepo.Update(ctx, s.db, company)
		}
		return domain.User{}, err
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           s.genID.Generate(),
		CompanyID:    tc.CompanyID,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		PasswordHash: hash,
		Role:         tenantctx.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateUserRequest) (domain.User, error) {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}

	user, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.User{}, err
	}
	if user == nil || user.CompanyID != tc.CompanyID {
		return domain.User{}, domain.ErrNotFound
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, domain.ErrInvalidInput
	}
	if email != user.Email {
		existing, err := s.repo.FindByEmail(ctx, s.db, email)
		if err != nil {
			return domain.User{}, err
		}
		if existing != nil {
			return domain.User{}, domain.ErrEmailTaken
		}
	}

	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)
	user.Email = email
	user.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, user); err != nil {
		return domain.User{}, err
	}
	return *user, nil
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

func (s *Service) ToggleActive(ctx context.Context, id snowflake.ID) (domain.User, error) {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}

	user, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.User{}, err
	}
	if user == nil || user.CompanyID != tc.CompanyID {
		return domain.User{}, domain.ErrNotFound
	}

	user.IsActive = !user.IsActive
	user.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, user); err != nil {
		return domain.User{}, err
	}
	return *user, nil
}
